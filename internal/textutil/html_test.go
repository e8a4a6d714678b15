package textutil

import (
	"strings"
	"testing"
)

func TestExtractText_SkipsNonContent(t *testing.T) {
	html := `<html><head><script>var x = "secret";</script><style>.a{}</style></head>
	<body><nav>Home | About</nav>
	<p>The glacier lost mass rapidly.</p>
	<footer>Copyright notice</footer></body></html>`

	text, err := ExtractText(html)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !strings.Contains(text, "The glacier lost mass rapidly.") {
		t.Errorf("Expected paragraph text kept, got %q", text)
	}
	for _, banned := range []string{"secret", "Home | About", "Copyright notice"} {
		if strings.Contains(text, banned) {
			t.Errorf("Expected %q stripped, got %q", banned, text)
		}
	}
}

func TestExtractText_PlainTextPassthrough(t *testing.T) {
	text, err := ExtractText("just plain words")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !strings.Contains(text, "just plain words") {
		t.Errorf("Expected plain text preserved, got %q", text)
	}
}
