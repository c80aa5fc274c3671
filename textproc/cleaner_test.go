package textproc

import "testing"

func TestClean(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
		{
			name:  "whitespace only",
			input: "  \n\t  ",
			want:  "",
		},
		{
			name:  "collapses whitespace runs",
			input: "hello    world\tagain",
			want:  "hello world again",
		},
		{
			name:  "removes page header line",
			input: "Page 12\nActual content here",
			want:  "Actual content here",
		},
		{
			name:  "removes page fraction footer",
			input: "Some content\n3 / 17\nMore content",
			want:  "Some content More content",
		},
		{
			name:  "removes confidential marker case insensitively",
			input: "CONFIDENTIAL\nThe quarterly numbers",
			want:  "The quarterly numbers",
		},
		{
			name:  "keeps page mentions inside prose",
			input: "see page 12 for details",
			want:  "see page 12 for details",
		},
		{
			name:  "strips non printable bytes",
			input: "clean\x00\x01text",
			want:  "clean text",
		},
		{
			name:  "keeps emoji and astral plane characters",
			input: "caution \U0001F525 hot surface \U0002070E marking",
			want:  "caution \U0001F525 hot surface \U0002070E marking",
		},
		{
			name:  "repairs hyphenated line break",
			input: "we want to maxi- mize throughput",
			want:  "we want to maximize throughput",
		},
		{
			name:  "repairs hyphenation across newline",
			input: "we want to maxi-\nmize throughput",
			want:  "we want to maximize throughput",
		},
		{
			name:  "preserves paragraph breaks",
			input: "first paragraph\n\nsecond paragraph",
			want:  "first paragraph\n\nsecond paragraph",
		},
		{
			name:  "collapses extra blank lines to one break",
			input: "first paragraph\n\n\n\nsecond paragraph",
			want:  "first paragraph\n\nsecond paragraph",
		},
		{
			name:  "single newline becomes space",
			input: "line one\nline two",
			want:  "line one line two",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clean(tt.input)
			if got != tt.want {
				t.Errorf("Clean(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestClean_Deterministic(t *testing.T) {
	input := "Page 3\nSome con-\ntent with   spacing\n\nand a second paragraph"
	first := Clean(input)
	for i := 0; i < 5; i++ {
		if got := Clean(input); got != first {
			t.Fatalf("Clean is not deterministic: %q vs %q", got, first)
		}
	}
}

func TestSplitParagraphs(t *testing.T) {
	paragraphs := SplitParagraphs("alpha\n\nbeta\n \n\ngamma")
	want := []string{"alpha", "beta", "gamma"}
	if len(paragraphs) != len(want) {
		t.Fatalf("got %d paragraphs, want %d: %v", len(paragraphs), len(want), paragraphs)
	}
	for i := range want {
		if paragraphs[i] != want[i] {
			t.Errorf("paragraph %d = %q, want %q", i, paragraphs[i], want[i])
		}
	}
}

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "empty",
			input: "   ",
			want:  nil,
		},
		{
			name:  "two sentences",
			input: "The cat sat down. The dog barked loudly.",
			want:  []string{"The cat sat down.", "The dog barked loudly."},
		},
		{
			name:  "no split before lowercase",
			input: "approx. values are fine here",
			want:  []string{"approx. values are fine here"},
		},
		{
			name:  "tiny fragments dropped",
			input: "Ok. The full sentence survives the filter.",
			want:  []string{"The full sentence survives the filter."},
		},
		{
			name:  "unsplittable text returned whole",
			input: "a b c",
			want:  []string{"a b c"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitSentences(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d sentences %v, want %d %v", len(got), got, len(tt.want), tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("sentence %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}
