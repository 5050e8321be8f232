package ai

import "fmt"

// BuildPrompt asks for a Bengali rewrite of one feed item as strict JSON.
// The backend still wraps answers in Markdown fences often enough that
// Parse has to strip them regardless of the instruction here.
func BuildPrompt(title, link, summary string) string {
	return fmt.Sprintf(`তুমি একজন অভিজ্ঞ বাংলা সংবাদ সম্পাদক। নিচের সংবাদটি পড়ে সম্পূর্ণ নতুন ভাষায় বাংলায় পুনর্লিখন করো।

শিরোনাম: %s
লিংক: %s
সারসংক্ষেপ: %s

নির্দেশনা:
1. একটি আকর্ষণীয় বাংলা শিরোনাম লেখো।
2. কমপক্ষে তিন অনুচ্ছেদের একটি পূর্ণাঙ্গ বাংলা প্রতিবেদন লেখো।
3. সংবাদটির জন্য একটি বিভাগ নির্বাচন করো: জাতীয়, আন্তর্জাতিক, রাজনীতি, অর্থনীতি, খেলা, বিনোদন, প্রযুক্তি, শিক্ষা।
4. উত্তরে শুধুমাত্র নিচের JSON কাঠামোটি দাও, অন্য কোনো লেখা বা Markdown চিহ্ন নয়:
{"headline": "...", "body": "...", "category": "..."}`, title, link, summary)
}
