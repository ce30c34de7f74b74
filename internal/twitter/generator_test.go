package twitter

import (
	"strings"
	"testing"
)

// zeroGen always picks the first option from every bucket.
func zeroGen() *TemplateGenerator {
	return &TemplateGenerator{intn: func(int) int { return 0 }}
}

func TestPostUsesTopicBucketAndTone(t *testing.T) {
	g := zeroGen()

	post := g.Post("Foo Protocol", "tokenomics deep dive", "enthusiastic")
	if !strings.HasPrefix(post.Content, "Just analyzed Foo Protocol's tokenomics.") {
		t.Errorf("content did not use the tokenomics bucket: %q", post.Content)
	}
	if !strings.Contains(post.Content, "promising") {
		t.Errorf("content missing enthusiastic sentiment: %q", post.Content)
	}
	if !strings.Contains(post.Content, "25% allocated to the team") {
		t.Errorf("content missing tokenomics detail: %q", post.Content)
	}

	want := []string{"#Tokenomics", "#Crypto", "#FooProtocol", "#Investment"}
	if len(post.Hashtags) != len(want) {
		t.Fatalf("hashtags = %v, want %v", post.Hashtags, want)
	}
	for i := range want {
		if post.Hashtags[i] != want[i] {
			t.Errorf("hashtags[%d] = %q, want %q", i, post.Hashtags[i], want[i])
		}
	}
	if !strings.HasSuffix(post.Content, strings.Join(want, " ")) {
		t.Errorf("content should end with the hashtag line: %q", post.Content)
	}
}

func TestPostFallsBackToGeneralAndInformative(t *testing.T) {
	g := zeroGen()

	post := g.Post("Foo", "something unusual", "angry")
	if !strings.Contains(post.Content, "Analyzing Foo with AI tools.") {
		t.Errorf("content did not use the general bucket: %q", post.Content)
	}
	if !strings.Contains(post.Content, "interesting") {
		t.Errorf("unknown tone should fall back to informative: %q", post.Content)
	}
	if post.Hashtags[0] != "#Foo" {
		t.Errorf("hashtags = %v, want project tag first for general topics", post.Hashtags)
	}
}

func TestThreadShape(t *testing.T) {
	g := zeroGen()
	topics := []string{"team", "roadmap", "community growth"}

	posts := g.Thread("Foo Protocol", topics)
	if len(posts) != len(topics)+2 {
		t.Fatalf("thread length = %d, want %d (intro + topics + conclusion)", len(posts), len(topics)+2)
	}

	intro := posts[0]
	if !strings.Contains(intro.Content, "Deep dive on Foo Protocol") {
		t.Errorf("intro content: %q", intro.Content)
	}
	if len(intro.Mentions) != 1 || intro.Mentions[0] != "@ScryptexAI" {
		t.Errorf("intro mentions = %v, want [@ScryptexAI]", intro.Mentions)
	}

	if !strings.HasPrefix(posts[1].Content, "2/ TEAM:") {
		t.Errorf("team topic post: %q", posts[1].Content)
	}
	if !strings.HasPrefix(posts[2].Content, "3/ ROADMAP:") {
		t.Errorf("roadmap topic post: %q", posts[2].Content)
	}
	// Topics without a template fall back to a numbered generic post.
	if !strings.HasPrefix(posts[3].Content, "3/ COMMUNITY GROWTH:") {
		t.Errorf("generic topic post: %q", posts[3].Content)
	}

	conclusion := posts[len(posts)-1]
	if !strings.HasPrefix(conclusion.Content, "CONCLUSION:") {
		t.Errorf("conclusion content: %q", conclusion.Content)
	}
	if !strings.Contains(conclusion.Content, "#DYOR #NotFinancialAdvice") {
		t.Errorf("conclusion missing closing tags: %q", conclusion.Content)
	}
	for _, p := range posts {
		if p.Hashtags[0] != "#FooProtocol" {
			t.Errorf("every thread post carries the project tag, got %v", p.Hashtags)
		}
	}
}

func TestSampleTwoReturnsDistinctEntries(t *testing.T) {
	// With intn pinned to 0 the second index collides and must shift.
	g := zeroGen()
	pair := g.sampleTwo([]string{"a", "b", "c"})
	if pair != "a, b" {
		t.Errorf("sampleTwo = %q, want %q", pair, "a, b")
	}
}
