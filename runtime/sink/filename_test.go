package sink

import "testing"

func TestSplitFilenameExtension(t *testing.T) {
	cases := []struct {
		path, name, ext string
	}{
		{"file", "file", ""},
		{"file.log", "file", ".log"},
		{"dir.x/file.log", "dir.x/file", ".log"},
		{"dir.x/file", "dir.x/file", ""},
		{".hidden", ".hidden", ""},
		{"trailing.", "trailing.", ""},
		{"/a/b/c.txt", "/a/b/c", ".txt"},
	}
	for _, c := range cases {
		name, ext := splitFilenameExtension(c.path)
		if name != c.name || ext != c.ext {
			t.Errorf("splitFilenameExtension(%q) = (%q, %q), want (%q, %q)", c.path, name, ext, c.name, c.ext)
		}
	}
}

func TestBuildFilenameWithIndex(t *testing.T) {
	cases := []struct {
		basename string
		index    int
		want     string
	}{
		{"file", 0, "file"},
		{"file", 1, "file.1"},
		{"file", 2, "file.2"},
		{"file.log", 0, "file.log"},
		{"file.log", 1, "file.1.log"},
		{"file.log", 2, "file.2.log"},
	}
	for _, c := range cases {
		got := buildFilenameWithIndex(c.basename, c.index)
		if got != c.want {
			t.Errorf("buildFilenameWithIndex(%q, %d) = %q, want %q", c.basename, c.index, got, c.want)
		}
	}
}
