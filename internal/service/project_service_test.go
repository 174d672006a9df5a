package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-productforge-be/internal/dto"
	"ai-productforge-be/internal/entity"
	"ai-productforge-be/pkg/canvas"
	"ai-productforge-be/pkg/events"
	"ai-productforge-be/pkg/phase"
)

type projectFixture struct {
	factory   *memFactory
	publisher *recordingPublisher
	events    *recordingEventPublisher
	service   IProjectService
}

func newProjectFixture() *projectFixture {
	factory := newMemFactory()
	publisher := &recordingPublisher{}
	eventsDouble := &recordingEventPublisher{}
	return &projectFixture{
		factory:   factory,
		publisher: publisher,
		events:    eventsDouble,
		service:   NewProjectService(factory, publisher, eventsDouble, nopLogger{}),
	}
}

func TestCreateProjectSeedsRootCanvas(t *testing.T) {
	fx := newProjectFixture()
	userId := uuid.New()

	res, err := fx.service.Create(context.Background(), userId, &dto.CreateProjectRequest{
		Name:        "Recipe Box",
		Description: "Family recipes in one place",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.CurrentPhase)
	assert.Equal(t, "ideation", res.PhaseName)

	stored := fx.factory.store.projects[res.Id]
	require.NotNil(t, stored)
	root := stored.Canvas.FindNode(canvas.RootNodeId)
	require.NotNil(t, root)
	assert.Equal(t, "Recipe Box", root.Data["label"])

	require.Len(t, fx.events.events, 1)
	assert.Equal(t, events.TypeProjectCreated, fx.events.events[0].EventType())
}

func TestAdvancePhaseHappyPath(t *testing.T) {
	fx := newProjectFixture()
	project, userId := seedProject(fx.factory, phase.Ideation)

	res, err := fx.service.AdvancePhase(context.Background(), userId, project.Id, &dto.AdvancePhaseRequest{ExpectedPhase: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, res.CurrentPhase)
	assert.Equal(t, phase.FeatureMapping, fx.factory.store.projects[project.Id].CurrentPhase)

	// Completing ideation schedules the Overview section.
	require.Len(t, fx.publisher.published, 1)
	assert.Equal(t, []int{1}, fx.publisher.published[0])
}

func TestAdvancePhaseStaleExpectationConflicts(t *testing.T) {
	fx := newProjectFixture()
	project, userId := seedProject(fx.factory, phase.FeatureMapping)

	_, err := fx.service.AdvancePhase(context.Background(), userId, project.Id, &dto.AdvancePhaseRequest{ExpectedPhase: 1})
	assert.ErrorIs(t, err, ErrStateMismatch)
	assert.Equal(t, phase.FeatureMapping, fx.factory.store.projects[project.Id].CurrentPhase)
}

func TestAdvancePhaseStopsAtFinalPhase(t *testing.T) {
	fx := newProjectFixture()
	project, userId := seedProject(fx.factory, phase.Export)

	_, err := fx.service.AdvancePhase(context.Background(), userId, project.Id, &dto.AdvancePhaseRequest{ExpectedPhase: 5})
	assert.ErrorIs(t, err, ErrStateMismatch)
}

func TestAdvancePhaseOnlySchedulesSectionsAfterIdeation(t *testing.T) {
	fx := newProjectFixture()
	project, userId := seedProject(fx.factory, phase.FeatureMapping)

	_, err := fx.service.AdvancePhase(context.Background(), userId, project.Id, &dto.AdvancePhaseRequest{ExpectedPhase: 2})
	require.NoError(t, err)
	assert.Empty(t, fx.publisher.published)
}

func TestDeleteProjectCascades(t *testing.T) {
	fx := newProjectFixture()
	project, userId := seedProject(fx.factory, phase.Ideation)
	fx.factory.store.messages = append(fx.factory.store.messages, &entity.Message{
		Id: uuid.New(), ProjectId: project.Id, Role: "user", Content: "hello", Phase: phase.Ideation,
	})
	fx.factory.store.documents = append(fx.factory.store.documents, &entity.Document{
		Id: uuid.New(), ProjectId: project.Id, Type: "prd",
	})

	require.NoError(t, fx.service.Delete(context.Background(), userId, project.Id))

	assert.Empty(t, fx.factory.store.projects)
	assert.Empty(t, fx.factory.store.messages)
	assert.Empty(t, fx.factory.store.documents)
}

func TestProjectOwnershipIsEnforced(t *testing.T) {
	fx := newProjectFixture()
	project, _ := seedProject(fx.factory, phase.Ideation)
	stranger := uuid.New()

	_, err := fx.service.Show(context.Background(), stranger, project.Id)
	assert.ErrorIs(t, err, ErrNotFound)

	err = fx.service.Delete(context.Background(), stranger, project.Id)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Len(t, fx.factory.store.projects, 1)
}

func TestReplaceCanvasOverwritesGraph(t *testing.T) {
	fx := newProjectFixture()
	project, userId := seedProject(fx.factory, phase.FeatureMapping)

	res, err := fx.service.ReplaceCanvas(context.Background(), userId, project.Id, &dto.ReplaceCanvasRequest{
		Nodes: []canvas.Node{
			{Id: "root", Type: canvas.NodeTypeRoot, Data: map[string]interface{}{"label": "Tracker"}},
			{Id: "feature-a", Type: canvas.NodeTypeFeature, Data: map[string]interface{}{"label": "A"}},
		},
		Edges: []canvas.Edge{
			{Id: "root-feature-a", Source: "root", Target: "feature-a", Type: canvas.EdgeTypeSmoothstep},
		},
	})
	require.NoError(t, err)
	assert.Len(t, res.Nodes, 2)
	assert.Len(t, res.Edges, 1)

	stored := fx.factory.store.projects[project.Id]
	assert.NotNil(t, stored.Canvas.FindNode("feature-a"))
}
