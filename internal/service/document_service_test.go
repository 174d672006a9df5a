package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-productforge-be/internal/dto"
	"ai-productforge-be/pkg/phase"
	"ai-productforge-be/pkg/renderer"
)

type fakeRenderer struct {
	pdf []byte
	err error
}

func (r *fakeRenderer) Render(ctx context.Context, markdown string) ([]byte, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.pdf, nil
}

type documentFixture struct {
	factory *memFactory
	llm     *scriptedLLM
	events  *recordingEventPublisher
	service IDocumentService
}

func newDocumentFixture(t *testing.T, llmDouble *scriptedLLM, pdfRenderer renderer.Renderer) *documentFixture {
	t.Helper()
	factory := newMemFactory()
	eventsDouble := &recordingEventPublisher{}
	return &documentFixture{
		factory: factory,
		llm:     llmDouble,
		events:  eventsDouble,
		service: NewDocumentService(factory, llmDouble, pdfRenderer, eventsDouble, t.TempDir(), nopLogger{}),
	}
}

func TestGenerateRequiresDocumentPhase(t *testing.T) {
	fx := newDocumentFixture(t, &scriptedLLM{}, &fakeRenderer{err: renderer.ErrUnavailable})
	project, userId := seedProject(fx.factory, phase.Design)

	_, err := fx.service.Generate(context.Background(), userId, &dto.GenerateDocumentRequest{ProjectId: project.Id})
	assert.ErrorIs(t, err, ErrStateMismatch)
}

func TestGenerateAssemblesAndAdvancesToExport(t *testing.T) {
	fx := newDocumentFixture(t, &scriptedLLM{replies: []string{"Generated section text."}}, &fakeRenderer{pdf: []byte("%PDF-1.4")})
	project, userId := seedProject(fx.factory, phase.DocumentGeneration)

	res, err := fx.service.Generate(context.Background(), userId, &dto.GenerateDocumentRequest{ProjectId: project.Id})
	require.NoError(t, err)
	assert.Equal(t, "Tracker - PRD", res.Title)
	assert.True(t, res.PdfAvailable)

	content, err := os.ReadFile(res.MdPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), "# Tracker - PRD"))
	assert.Contains(t, string(content), "\n\n---\n\n")

	assert.Equal(t, filepath.Ext(res.PdfPath), ".pdf")
	assert.Equal(t, phase.Export, fx.factory.store.projects[project.Id].CurrentPhase)

	// All four sections were generated fresh: nothing was pregenerated.
	assert.Equal(t, 4, fx.llm.calls)
}

func TestGenerateReusesPregeneratedSections(t *testing.T) {
	fx := newDocumentFixture(t, &scriptedLLM{replies: []string{"Fresh text."}}, &fakeRenderer{err: renderer.ErrUnavailable})
	project, userId := seedProject(fx.factory, phase.DocumentGeneration)
	project.PrdDraft.SetSection(1, "Pregenerated overview.")
	project.PrdDraft.SetSection(2, "Pregenerated features.")
	project.PrdDraft.SetSection(3, "Pregenerated architecture.")
	// Section 4 is pre-seeded too, but it must be regenerated regardless.
	project.PrdDraft.SetSection(4, "Stale design guide.")

	res, err := fx.service.Generate(context.Background(), userId, &dto.GenerateDocumentRequest{ProjectId: project.Id})
	require.NoError(t, err)

	content, err := os.ReadFile(res.MdPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "Pregenerated overview.")
	assert.Contains(t, string(content), "Fresh text.")
	assert.NotContains(t, string(content), "Stale design guide.")
	assert.Equal(t, 1, fx.llm.calls)
}

func TestGenerateStampsDraft(t *testing.T) {
	fx := newDocumentFixture(t, &scriptedLLM{replies: []string{"Section."}}, &fakeRenderer{err: renderer.ErrUnavailable})
	project, userId := seedProject(fx.factory, phase.DocumentGeneration)

	_, err := fx.service.Generate(context.Background(), userId, &dto.GenerateDocumentRequest{ProjectId: project.Id})
	require.NoError(t, err)

	draft := fx.factory.store.projects[project.Id].PrdDraft
	assert.Len(t, draft.Sections, 4)
	assert.Equal(t, []int{1, 3, 4}, draft.GeneratedPhases)
	assert.NotNil(t, draft.UpdatedAt)
}

func TestGenerateIsIdempotent(t *testing.T) {
	fx := newDocumentFixture(t, &scriptedLLM{replies: []string{"Section."}}, &fakeRenderer{err: renderer.ErrUnavailable})
	project, userId := seedProject(fx.factory, phase.DocumentGeneration)

	first, err := fx.service.Generate(context.Background(), userId, &dto.GenerateDocumentRequest{ProjectId: project.Id})
	require.NoError(t, err)
	callsAfterFirst := fx.llm.calls

	second, err := fx.service.Generate(context.Background(), userId, &dto.GenerateDocumentRequest{ProjectId: project.Id})
	require.NoError(t, err)
	assert.Equal(t, first.Id, second.Id)
	assert.Equal(t, callsAfterFirst, fx.llm.calls)
	assert.Len(t, fx.factory.store.documents, 1)
}

func TestGenerateDegradesToMarkdownOnly(t *testing.T) {
	fx := newDocumentFixture(t, &scriptedLLM{replies: []string{"Section."}}, &fakeRenderer{err: renderer.ErrUnavailable})
	project, userId := seedProject(fx.factory, phase.DocumentGeneration)

	res, err := fx.service.Generate(context.Background(), userId, &dto.GenerateDocumentRequest{ProjectId: project.Id})
	require.NoError(t, err)
	assert.False(t, res.PdfAvailable)
	assert.Empty(t, res.PdfPath)
	assert.FileExists(t, res.MdPath)
}

func TestGenerateSectionFailureIsInline(t *testing.T) {
	fx := newDocumentFixture(t, &scriptedLLM{err: errors.New("model offline")}, &fakeRenderer{err: renderer.ErrUnavailable})
	project, userId := seedProject(fx.factory, phase.DocumentGeneration)

	res, err := fx.service.Generate(context.Background(), userId, &dto.GenerateDocumentRequest{ProjectId: project.Id})
	require.NoError(t, err)

	content, err := os.ReadFile(res.MdPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "Generation error:")
}

func TestDownloadFormats(t *testing.T) {
	fx := newDocumentFixture(t, &scriptedLLM{replies: []string{"Section."}}, &fakeRenderer{err: renderer.ErrUnavailable})
	project, userId := seedProject(fx.factory, phase.DocumentGeneration)

	res, err := fx.service.Generate(context.Background(), userId, &dto.GenerateDocumentRequest{ProjectId: project.Id})
	require.NoError(t, err)

	mdPath, err := fx.service.Download(context.Background(), userId, res.Id, "md")
	require.NoError(t, err)
	assert.Equal(t, res.MdPath, mdPath)

	_, err = fx.service.Download(context.Background(), userId, res.Id, "pdf")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = fx.service.Download(context.Background(), userId, res.Id, "docx")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = fx.service.Download(context.Background(), uuid.New(), res.Id, "md")
	assert.ErrorIs(t, err, ErrNotFound)
}
