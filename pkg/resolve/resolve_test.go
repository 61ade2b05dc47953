package resolve

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/alexsaveliev/getdeps/pkg/giturl"
)

type mockRegistry struct {
	mu    sync.Mutex
	infos map[string]*PackageInfo
	errs  map[string]error
	calls []string
}

func (m *mockRegistry) View(ctx context.Context, ref string) (*PackageInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, ref)
	if err := m.errs[ref]; err != nil {
		return nil, err
	}
	if info, ok := m.infos[ref]; ok {
		return info, nil
	}
	return nil, errors.New("unknown package")
}

func (m *mockRegistry) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func newResolver(reg Registry) *Resolver {
	return New(reg, giturl.Normalize, Options{})
}

func TestResolveAllShorthand(t *testing.T) {
	reg := &mockRegistry{}
	r := newResolver(reg)

	got := r.ResolveAll(context.Background(), map[string]string{
		"left-pad": "stevemao/left-pad",
	})

	res, ok := got["left-pad"]
	if !ok {
		t.Fatal("left-pad missing from result")
	}
	if res.Repo != "https://github.com/stevemao/left-pad" {
		t.Errorf("Repo = %q, want normalized shorthand URL", res.Repo)
	}
	if res.Commit != "" {
		t.Errorf("Commit = %q, want absent", res.Commit)
	}
	if res.Version != "" {
		t.Errorf("Version = %q, want absent", res.Version)
	}
	if reg.callCount() != 0 {
		t.Errorf("registry calls = %d, want 0 for shorthand", reg.callCount())
	}
}

func TestResolveAllShorthandWithCommit(t *testing.T) {
	r := newResolver(&mockRegistry{})

	got := r.ResolveAll(context.Background(), map[string]string{
		"left-pad": "stevemao/left-pad#abc123",
	})

	res := got["left-pad"]
	if res.Commit != "abc123" {
		t.Errorf("Commit = %q, want %q", res.Commit, "abc123")
	}
	if res.Repo != "https://github.com/stevemao/left-pad" {
		t.Errorf("Repo = %q, commit suffix must be excluded", res.Repo)
	}
}

func TestResolveAllURLSpecifiers(t *testing.T) {
	tests := []struct {
		name string
		spec string
		want Resolution
	}{
		{
			name: "https url",
			spec: "https://github.com/user/repo.git",
			want: Resolution{Repo: "https://github.com/user/repo"},
		},
		{
			name: "git plus ssh with commit",
			spec: "git+ssh://git@github.com/user/repo.git#deadbee",
			want: Resolution{Repo: "https://github.com/user/repo", Commit: "deadbee"},
		},
		{
			name: "git protocol",
			spec: "git://github.com/user/repo.git#v2.0.0",
			want: Resolution{Repo: "https://github.com/user/repo", Commit: "v2.0.0"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newResolver(&mockRegistry{})
			got := r.ResolveAll(context.Background(), map[string]string{"dep": tt.spec})
			if got["dep"] != tt.want {
				t.Errorf("resolution = %+v, want %+v", got["dep"], tt.want)
			}
		})
	}
}

func TestResolveAllDropsUnresolvableSpecifiers(t *testing.T) {
	reg := &mockRegistry{}
	r := newResolver(reg)

	got := r.ResolveAll(context.Background(), map[string]string{
		"local":   "/local/path",
		"filed":   "file:///somewhere/else",
		"relpath": "./vendor/thing",
	})

	if len(got) != 0 {
		t.Errorf("result = %v, want empty", got)
	}
	if reg.callCount() != 0 {
		t.Errorf("registry calls = %d, want 0", reg.callCount())
	}
}

func TestResolveAllSemverRange(t *testing.T) {
	reg := &mockRegistry{
		infos: map[string]*PackageInfo{
			"pkg": {
				Versions:   []string{"1.2.0", "1.3.0", "2.0.0"},
				Latest:     "2.0.0",
				Repository: "https://github.com/user/pkg",
				GitHead:    "latesthead",
			},
			"pkg@1.3.0": {
				Latest:     "1.3.0",
				Repository: "https://github.com/user/pkg",
				GitHead:    "pinnedhead",
			},
		},
	}
	r := newResolver(reg)

	got := r.ResolveAll(context.Background(), map[string]string{"pkg": "^1.2.0"})

	res, ok := got["pkg"]
	if !ok {
		t.Fatal("pkg missing from result")
	}
	if res.Version != "1.3.0" {
		t.Errorf("Version = %q, want highest satisfying %q", res.Version, "1.3.0")
	}
	if res.Commit != "pinnedhead" {
		t.Errorf("Commit = %q, want pinned query's %q", res.Commit, "pinnedhead")
	}
	if reg.callCount() != 2 {
		t.Errorf("registry calls = %d, want 2", reg.callCount())
	}
}

func TestResolveAllLatestSkipsSecondQuery(t *testing.T) {
	reg := &mockRegistry{
		infos: map[string]*PackageInfo{
			"pkg": {
				Versions:   []string{"1.0.0", "1.4.2"},
				Latest:     "1.4.2",
				Repository: "https://github.com/user/pkg",
				GitHead:    "latesthead",
			},
		},
	}
	r := newResolver(reg)

	got := r.ResolveAll(context.Background(), map[string]string{"pkg": "^1.0.0"})

	res := got["pkg"]
	if res.Version != "1.4.2" {
		t.Errorf("Version = %q, want %q", res.Version, "1.4.2")
	}
	if res.Repo != "https://github.com/user/pkg" || res.Commit != "latesthead" {
		t.Errorf("resolution = %+v, want first response's repo and commit", res)
	}
	if reg.callCount() != 1 {
		t.Errorf("registry calls = %d, want 1 (no pinned query for latest)", reg.callCount())
	}
}

func TestResolveAllEmptyInput(t *testing.T) {
	r := newResolver(&mockRegistry{})

	got := r.ResolveAll(context.Background(), nil)
	if len(got) != 0 {
		t.Errorf("result = %v, want empty", got)
	}
	got = r.ResolveAll(context.Background(), map[string]string{})
	if len(got) != 0 {
		t.Errorf("result = %v, want empty", got)
	}
}

func TestResolveAllIsolatesFailures(t *testing.T) {
	reg := &mockRegistry{
		infos: map[string]*PackageInfo{
			"good": {
				Versions: []string{"1.0.0"},
				Latest:   "1.0.0",
				GitHead:  "aaa",
			},
		},
		errs: map[string]error{
			"broken": errors.New("registry unreachable"),
		},
	}
	r := newResolver(reg)

	got := r.ResolveAll(context.Background(), map[string]string{
		"good":   "^1.0.0",
		"broken": "^2.0.0",
		"short":  "user/repo",
	})

	if len(got) != 2 {
		t.Fatalf("result has %d entries, want 2: %v", len(got), got)
	}
	if _, ok := got["broken"]; ok {
		t.Error("broken should be absent from result")
	}
	if got["good"].Version != "1.0.0" {
		t.Errorf("good.Version = %q, want %q", got["good"].Version, "1.0.0")
	}
	if got["short"].Repo != "https://github.com/user/repo" {
		t.Errorf("short.Repo = %q", got["short"].Repo)
	}
}

func TestResolveOneSecondQueryFailureDropsDependency(t *testing.T) {
	reg := &mockRegistry{
		infos: map[string]*PackageInfo{
			"pkg": {
				Versions: []string{"1.0.0", "2.0.0"},
				Latest:   "2.0.0",
			},
		},
		errs: map[string]error{
			"pkg@1.0.0": errors.New("boom"),
		},
	}
	r := newResolver(reg)

	out := r.resolveOne(context.Background(), "pkg", "~1.0.0")
	if out.status != statusFailed {
		t.Errorf("status = %v, want statusFailed", out.status)
	}
	if out.res != (Resolution{}) {
		t.Errorf("res = %+v, want zero (no partial write)", out.res)
	}
}

func TestResolveOneUnparsableRangeIsSkipped(t *testing.T) {
	reg := &mockRegistry{
		infos: map[string]*PackageInfo{
			"pkg": {Versions: []string{"1.0.0"}, Latest: "1.0.0"},
		},
	}
	r := newResolver(reg)

	out := r.resolveOne(context.Background(), "pkg", "latest")
	if out.status != statusSkipped {
		t.Errorf("status = %v, want statusSkipped", out.status)
	}
}

func TestResolveOneMissingRepositoryStillResolves(t *testing.T) {
	reg := &mockRegistry{
		infos: map[string]*PackageInfo{
			"pkg": {Versions: []string{"1.0.0"}, Latest: "1.0.0", GitHead: "headsha"},
		},
	}
	r := newResolver(reg)

	out := r.resolveOne(context.Background(), "pkg", "1.0.0")
	if out.status != statusResolved {
		t.Fatalf("status = %v, want statusResolved", out.status)
	}
	if out.res.Repo != "" {
		t.Errorf("Repo = %q, want absent", out.res.Repo)
	}
	if out.res.Commit != "headsha" {
		t.Errorf("Commit = %q, want %q", out.res.Commit, "headsha")
	}
}

func TestResolveOneKeepsRawRefWhenNormalizationFails(t *testing.T) {
	failing := func(string) string { return "" }
	r := New(&mockRegistry{}, failing, Options{})

	out := r.resolveOne(context.Background(), "dep", "git://example/repo#c0ffee")
	if out.status != statusResolved {
		t.Fatalf("status = %v, want statusResolved", out.status)
	}
	if out.res.Repo != "git://example/repo" {
		t.Errorf("Repo = %q, want raw reference kept", out.res.Repo)
	}
	if out.res.Commit != "c0ffee" {
		t.Errorf("Commit = %q, want %q", out.res.Commit, "c0ffee")
	}
}

func TestSplitCommit(t *testing.T) {
	tests := []struct {
		in, ref, commit string
	}{
		{"https://github.com/u/r#abc", "https://github.com/u/r", "abc"},
		{"https://github.com/u/r", "https://github.com/u/r", ""},
		{"#leading", "#leading", ""},
		{"u/r#", "u/r", ""},
	}
	for _, tt := range tests {
		ref, commit := splitCommit(tt.in)
		if ref != tt.ref || commit != tt.commit {
			t.Errorf("splitCommit(%q) = (%q, %q), want (%q, %q)",
				tt.in, ref, commit, tt.ref, tt.commit)
		}
	}
}
