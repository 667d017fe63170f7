package wikipedia

import "testing"

func TestURLForTitle(t *testing.T) {
	want := "https://en.wikipedia.org/w/index.php?action=render&title=Alien+%28film%29"
	if got := URLForTitle("https://en.wikipedia.org", "Alien (film)"); got != want {
		t.Fatalf("URLForTitle = %q, want %q", got, want)
	}
	// A trailing slash on the base must not double the separator.
	if got := URLForTitle("https://en.wikipedia.org/", "Alien (film)"); got != want {
		t.Fatalf("URLForTitle with trailing slash = %q, want %q", got, want)
	}
}

func TestURLForCurid(t *testing.T) {
	want := "https://en.wikipedia.org/w/index.php?action=render&curid=23941708"
	if got := URLForCurid("https://en.wikipedia.org", "23941708"); got != want {
		t.Fatalf("URLForCurid = %q, want %q", got, want)
	}
}
