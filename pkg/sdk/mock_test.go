package langprint

import (
	"context"

	"github.com/kailas-cloud/langprint/internal/domain/fingerprint"
	healthuc "github.com/kailas-cloud/langprint/internal/usecase/health"
	profileuc "github.com/kailas-cloud/langprint/internal/usecase/profile"
)

// --- profileUseCase mock ---

type mockProfileUC struct {
	buildFn  func(ctx context.Context, text string) (profileuc.Built, error)
	saveFn   func(ctx context.Context, tag, text, source, runID string) (fingerprint.LanguageProfile, bool, error)
	getFn    func(ctx context.Context, tag string) (fingerprint.LanguageProfile, error)
	listFn   func(ctx context.Context) ([]fingerprint.LanguageProfile, error)
	deleteFn func(ctx context.Context, tag string) error
	tableFn  func(ctx context.Context) (fingerprint.Table, error)
}

func (m *mockProfileUC) Build(ctx context.Context, text string) (profileuc.Built, error) {
	return m.buildFn(ctx, text)
}

func (m *mockProfileUC) Save(
	ctx context.Context, tag, text, source, runID string,
) (fingerprint.LanguageProfile, bool, error) {
	return m.saveFn(ctx, tag, text, source, runID)
}

func (m *mockProfileUC) Get(ctx context.Context, tag string) (fingerprint.LanguageProfile, error) {
	return m.getFn(ctx, tag)
}

func (m *mockProfileUC) List(ctx context.Context) ([]fingerprint.LanguageProfile, error) {
	return m.listFn(ctx)
}

func (m *mockProfileUC) Delete(ctx context.Context, tag string) error {
	return m.deleteFn(ctx, tag)
}

func (m *mockProfileUC) Table(ctx context.Context) (fingerprint.Table, error) {
	return m.tableFn(ctx)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(context.Context) healthuc.Report { return m.report }

// --- helpers ---

func testClient(profileSvc profileUseCase) *Client {
	return &Client{profileSvc: profileSvc}
}
