package giturl

import "testing"

func TestIsShorthand(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"user/repo", true},
		{"some-user/some.repo", true},
		{"User_1/repo-2", true},
		{"user/repo/extra", false},
		{"https://github.com/user/repo", false},
		{"/local/path", false},
		{"git@github.com:user/repo", false},
		{"lodash", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsShorthand(tt.in); got != tt.want {
			t.Errorf("IsShorthand(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"shorthand", "user/repo", "https://github.com/user/repo"},
		{"https passthrough", "https://github.com/user/repo", "https://github.com/user/repo"},
		{"http host kept", "http://gitlab.com/user/repo", "https://gitlab.com/user/repo"},
		{"git suffix trimmed", "https://github.com/user/repo.git", "https://github.com/user/repo"},
		{"git protocol", "git://github.com/user/repo.git", "https://github.com/user/repo"},
		{"git plus https", "git+https://github.com/user/repo.git", "https://github.com/user/repo"},
		{"git plus ssh", "git+ssh://git@github.com/user/repo.git", "https://github.com/user/repo"},
		{"scp-like", "git@github.com:user/repo.git", "https://github.com/user/repo"},
		{"ssh url", "ssh://git@bitbucket.org/user/repo", "https://bitbucket.org/user/repo"},
		{"empty", "", ""},
		{"bare path", "/local/path", ""},
		{"file scheme", "file:///local/path", ""},
		{"plain word", "lodash", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
