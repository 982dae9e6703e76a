package profile

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/kailas-cloud/langprint/internal/domain"
	"github.com/kailas-cloud/langprint/internal/domain/bigram"
	"github.com/kailas-cloud/langprint/internal/domain/fingerprint"
	"github.com/kailas-cloud/langprint/internal/domain/language"
	"github.com/kailas-cloud/langprint/internal/textnorm"
)

// --- Mocks ---

type mockRepo struct {
	profiles map[string]fingerprint.LanguageProfile
	putErr   error
	listErr  error
	puts     int
}

func newMockRepo() *mockRepo {
	return &mockRepo{profiles: make(map[string]fingerprint.LanguageProfile)}
}

func (m *mockRepo) Put(_ context.Context, p fingerprint.LanguageProfile) (bool, error) {
	m.puts++
	if m.putErr != nil {
		return false, m.putErr
	}
	_, exists := m.profiles[p.Tag().String()]
	m.profiles[p.Tag().String()] = p
	return !exists, nil
}

func (m *mockRepo) Get(_ context.Context, tag language.Tag) (fingerprint.LanguageProfile, error) {
	p, ok := m.profiles[tag.String()]
	if !ok {
		return fingerprint.LanguageProfile{}, domain.ErrNotFound
	}
	return p, nil
}

func (m *mockRepo) List(_ context.Context) ([]fingerprint.LanguageProfile, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]fingerprint.LanguageProfile, 0, len(m.profiles))
	for _, p := range m.profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Tag().String() < out[j].Tag().String() })
	return out, nil
}

func (m *mockRepo) Delete(_ context.Context, tag language.Tag) error {
	if _, ok := m.profiles[tag.String()]; !ok {
		return domain.ErrNotFound
	}
	delete(m.profiles, tag.String())
	return nil
}

func newTestService(repo Repository) *Service {
	return New(repo, bigram.NewBuilder(bigram.Latin), textnorm.New(textnorm.ModeNFC), nil)
}

// --- Tests ---

func TestBuild(t *testing.T) {
	svc := newTestService(nil)
	built, err := svc.Build(context.Background(), "abc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if built.Length != 3 || built.Pairs() != 2 {
		t.Errorf("expected length 3 / pairs 2, got %d / %d", built.Length, built.Pairs())
	}
	if built.Profile[bigram.PairIndex(0, 1)] != 0.5 || built.Profile[bigram.PairIndex(1, 2)] != 0.5 {
		t.Error("unexpected frequencies")
	}
}

func TestBuild_InsufficientInput(t *testing.T) {
	svc := newTestService(nil)
	for _, text := range []string{"", "a"} {
		_, err := svc.Build(context.Background(), text)
		if !errors.Is(err, domain.ErrInsufficientInput) {
			t.Errorf("Build(%q): expected ErrInsufficientInput, got %v", text, err)
		}
		var ie *bigram.InsufficientInputError
		if !errors.As(err, &ie) || ie.Length != len(text) {
			t.Errorf("Build(%q): expected InsufficientInputError with length %d, got %v", text, len(text), err)
		}
	}
}

func TestBuild_NormalizesFirst(t *testing.T) {
	svc := New(nil, bigram.NewBuilder(bigram.Latin), textnorm.New(textnorm.ModeFold), nil)
	// "e" + combining acute folds to a single "e".
	built, err := svc.Build(context.Background(), "e\u0301e")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if built.Length != 2 || built.Profile[bigram.PairIndex(4, 4)] != 1 {
		t.Errorf("expected single ee bigram, got length %d", built.Length)
	}
}

func TestSave_CreatedThenReplaced(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	lp, created, err := svc.Save(ctx, "en", "the earth", "https://en.example.org", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Error("expected created on first save")
	}
	if lp.SampleLength() != 9 || lp.Source() != "https://en.example.org" {
		t.Errorf("unexpected provenance: %d %q", lp.SampleLength(), lp.Source())
	}

	_, created, err = svc.Save(ctx, "en", "the world", "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created {
		t.Error("expected replace on second save")
	}
}

func TestSave_InvalidTag(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo)
	_, _, err := svc.Save(context.Background(), "en us", "hello", "", "")
	if !errors.Is(err, domain.ErrInvalidTag) {
		t.Fatalf("expected ErrInvalidTag, got %v", err)
	}
	if repo.puts != 0 {
		t.Error("repository must not be called")
	}
}

func TestSave_ShortText(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo)
	_, _, err := svc.Save(context.Background(), "en", "x", "", "")
	if !errors.Is(err, domain.ErrInsufficientInput) {
		t.Fatalf("expected ErrInsufficientInput, got %v", err)
	}
	if repo.puts != 0 {
		t.Error("repository must not be called")
	}
}

func TestSave_RepoError(t *testing.T) {
	repo := newMockRepo()
	repo.putErr = errors.New("connection reset")
	svc := newTestService(repo)
	if _, _, err := svc.Save(context.Background(), "en", "hello", "", ""); err == nil {
		t.Fatal("expected error")
	}
}

func TestStorageOps_WithoutRepository(t *testing.T) {
	svc := newTestService(nil)
	ctx := context.Background()
	if _, _, err := svc.Save(ctx, "en", "hello", "", ""); !errors.Is(err, errNoRepository) {
		t.Errorf("Save: expected errNoRepository, got %v", err)
	}
	if _, err := svc.Get(ctx, "en"); !errors.Is(err, errNoRepository) {
		t.Errorf("Get: expected errNoRepository, got %v", err)
	}
	if _, err := svc.List(ctx); !errors.Is(err, errNoRepository) {
		t.Errorf("List: expected errNoRepository, got %v", err)
	}
	if err := svc.Delete(ctx, "en"); !errors.Is(err, errNoRepository) {
		t.Errorf("Delete: expected errNoRepository, got %v", err)
	}
}

func TestGetDelete(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	if _, _, err := svc.Save(ctx, "de", "die erde", "", ""); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := svc.Get(ctx, "de")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Tag().String() != "de" {
		t.Errorf("unexpected tag %q", got.Tag())
	}

	if err := svc.Delete(ctx, "de"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(ctx, "de"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := svc.Delete(ctx, "de"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestTable(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	for tag, text := range map[string]string{"en": "the earth", "nl": "de aarde", "fr": "la terre"} {
		if _, _, err := svc.Save(ctx, tag, text, "", ""); err != nil {
			t.Fatalf("save %s: %v", tag, err)
		}
	}

	table, err := svc.Table(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := table.Tags(); len(got) != 3 || got[0] != "en" || got[2] != "nl" {
		t.Errorf("unexpected tags %v", got)
	}
	for _, tag := range table.Tags() {
		if err := table[tag].Validate(); err != nil {
			t.Errorf("%s: %v", tag, err)
		}
	}
}

func TestTable_ListError(t *testing.T) {
	repo := newMockRepo()
	repo.listErr = errors.New("boom")
	if _, err := newTestService(repo).Table(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestCounts(t *testing.T) {
	counts, pairs := newTestService(nil).Counts("abab")
	if pairs != 3 {
		t.Fatalf("expected 3 pairs, got %d", pairs)
	}
	if counts[bigram.PairIndex(0, 1)] != 2 || counts[bigram.PairIndex(1, 0)] != 1 {
		t.Error("unexpected counts")
	}
}
