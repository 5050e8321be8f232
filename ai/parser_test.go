package ai

import "testing"

func TestParseFencedJSON(t *testing.T) {
	t.Parallel()

	raw := "```json\n{\"headline\": \"শিরোনাম\", \"body\": \"বিষয়বস্তু\", \"category\": \"খেলা\"}\n```"

	result, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if result.Headline != "শিরোনাম" {
		t.Fatalf("unexpected headline: %q", result.Headline)
	}
	if result.Body != "বিষয়বস্তু" {
		t.Fatalf("unexpected body: %q", result.Body)
	}
	if result.Category != "খেলা" {
		t.Fatalf("unexpected category: %q", result.Category)
	}
}

func TestParseBareFences(t *testing.T) {
	t.Parallel()

	raw := "```\n{\"headline\": \"h\", \"body\": \"b\", \"category\": \"c\"}\n```"
	result, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if result.Headline != "h" || result.Body != "b" || result.Category != "c" {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestParseWithoutFences(t *testing.T) {
	t.Parallel()

	result, err := Parse(`{"headline": "h", "body": "b", "category": "c"}`)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if result.Headline != "h" {
		t.Fatalf("unexpected headline: %q", result.Headline)
	}
}

func TestParseMissingFieldsStayEmpty(t *testing.T) {
	t.Parallel()

	result, err := Parse(`{"headline": "h"}`)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if result.Body != "" || result.Category != "" {
		t.Fatalf("missing fields should be empty, got %+v", result)
	}
}

func TestParseMalformed(t *testing.T) {
	t.Parallel()

	if _, err := Parse("এটা JSON নয়"); err == nil {
		t.Fatal("expected error for malformed output")
	}
	if _, err := Parse("```json\nnot json at all\n```"); err == nil {
		t.Fatal("expected error for fenced non-JSON")
	}
}

func TestStripFences(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in, want string
	}{
		{"```json\n{}\n```", "{}"},
		{"```\n{}\n```", "{}"},
		{"  {}  ", "{}"},
		{"{}", "{}"},
	}
	for _, c := range cases {
		if got := StripFences(c.in); got != c.want {
			t.Fatalf("StripFences(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
