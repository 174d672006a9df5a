package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-productforge-be/internal/config"
	"ai-productforge-be/internal/constant"
	"ai-productforge-be/internal/dto"
	"ai-productforge-be/internal/entity"
	"ai-productforge-be/pkg/canvas"
	"ai-productforge-be/pkg/phase"
	"ai-productforge-be/pkg/search"
)

func testWorkflow() config.WorkflowConfig {
	return config.WorkflowConfig{
		ProactiveSearchCap:     2,
		IdeationMinExchanges:   3,
		ExplicitSearchKeywords: []string{"research", "search"},
		CompetitorKeywords:     []string{"competitor", "alternatives"},
		SuggestionKeywords:     []string{"suggest", "recommend"},
		SectionTopicName:       "PREGENERATE_SECTION",
	}
}

func seedProject(f *memFactory, p phase.Phase) (*entity.Project, uuid.UUID) {
	userId := uuid.New()
	project := &entity.Project{
		Id:             uuid.New(),
		UserId:         userId,
		Name:           "Tracker",
		Description:    "Habit tracker for remote teams",
		CurrentPhase:   p,
		Canvas:         *canvas.NewGraph("Tracker"),
		PhaseSummaries: make(map[int]map[string]interface{}),
		SearchUsage:    make(map[int]int),
	}
	f.store.projects[project.Id] = project
	return project, userId
}

type chatFixture struct {
	factory   *memFactory
	llm       *scriptedLLM
	search    *scriptedSearch
	publisher *recordingPublisher
	service   IChatService
}

func newChatFixture(llmDouble *scriptedLLM, searchDouble *scriptedSearch) *chatFixture {
	factory := newMemFactory()
	publisher := &recordingPublisher{}
	design := NewDesignService(factory, llmDouble, searchDouble, publisher, nopLogger{})
	chat := NewChatService(factory, llmDouble, searchDouble, design, testWorkflow(), nopLogger{})
	return &chatFixture{
		factory:   factory,
		llm:       llmDouble,
		search:    searchDouble,
		publisher: publisher,
		service:   chat,
	}
}

func TestSendChatPartitionsHistoryByPhase(t *testing.T) {
	fx := newChatFixture(&scriptedLLM{replies: []string{"Great idea, tell me more."}}, &scriptedSearch{})
	project, userId := seedProject(fx.factory, phase.Ideation)

	res, err := fx.service.SendChat(context.Background(), userId, &dto.SendChatRequest{
		ProjectId: project.Id, Message: "I want to build a habit tracker",
	})
	require.NoError(t, err)
	assert.Equal(t, "Great idea, tell me more.", res.Reply)

	history, err := fx.service.GetHistory(context.Background(), userId, project.Id, 1)
	require.NoError(t, err)
	require.Len(t, history.Messages, 2)
	assert.Equal(t, constant.ChatMessageRoleUser, history.Messages[0].Role)
	assert.Equal(t, constant.ChatMessageRoleAssistant, history.Messages[1].Role)

	other, err := fx.service.GetHistory(context.Background(), userId, project.Id, 2)
	require.NoError(t, err)
	assert.Empty(t, other.Messages)
}

func TestSendChatAppliesCanvasDirectives(t *testing.T) {
	reply := `Adding it now.
[UPDATE_CANVAS]
{"action": "add_node", "node": {"id": "feature-planner", "type": "feature", "data": {"label": "Planner"}, "parentId": "root"}}
[/UPDATE_CANVAS]`
	fx := newChatFixture(&scriptedLLM{replies: []string{reply}}, &scriptedSearch{})
	project, userId := seedProject(fx.factory, phase.FeatureMapping)

	res, err := fx.service.SendChat(context.Background(), userId, &dto.SendChatRequest{
		ProjectId: project.Id, Message: "Add a planner feature",
	})
	require.NoError(t, err)
	assert.True(t, res.CanvasUpdated)
	assert.NotContains(t, res.Reply, "[UPDATE_CANVAS]")

	stored := fx.factory.store.projects[project.Id]
	require.NotNil(t, stored.Canvas.FindNode("feature-planner"))
	assert.True(t, stored.Canvas.HasEdge("root", "feature-planner"))
}

func TestSendChatCompletionTagNeverAdvancesInteractivePhases(t *testing.T) {
	for _, p := range []phase.Phase{phase.Ideation, phase.FeatureMapping, phase.Export} {
		fx := newChatFixture(&scriptedLLM{replies: []string{"All done here. [PHASE_COMPLETE]"}}, &scriptedSearch{})
		project, userId := seedProject(fx.factory, p)

		res, err := fx.service.SendChat(context.Background(), userId, &dto.SendChatRequest{
			ProjectId: project.Id, Message: "I think we are done",
		})
		require.NoError(t, err)
		assert.True(t, res.PhaseComplete, "phase %d", int(p))
		assert.False(t, res.PhaseAdvanced, "phase %d", int(p))
		assert.Equal(t, p, fx.factory.store.projects[project.Id].CurrentPhase, "phase %d", int(p))
	}
}

func TestSendChatCompletionFailureIsInlineNotFatal(t *testing.T) {
	fx := newChatFixture(&scriptedLLM{err: errors.New("connection refused")}, &scriptedSearch{})
	project, userId := seedProject(fx.factory, phase.Ideation)

	res, err := fx.service.SendChat(context.Background(), userId, &dto.SendChatRequest{
		ProjectId: project.Id, Message: "hello",
	})
	require.NoError(t, err)
	assert.Contains(t, res.Reply, "AI Error:")

	history, err := fx.service.GetHistory(context.Background(), userId, project.Id, 1)
	require.NoError(t, err)
	require.Len(t, history.Messages, 2)
	assert.Contains(t, history.Messages[1].Content, "AI Error:")
}

func TestSendChatProactiveSearchIsCappedPerPhase(t *testing.T) {
	fx := newChatFixture(
		&scriptedLLM{replies: []string{"Here is what I found."}},
		&scriptedSearch{results: []search.Result{{Title: "Streaks", Snippet: "habit app"}}},
	)
	project, userId := seedProject(fx.factory, phase.Ideation)

	for i := 0; i < 3; i++ {
		res, err := fx.service.SendChat(context.Background(), userId, &dto.SendChatRequest{
			ProjectId: project.Id, Message: fmt.Sprintf("who is a competitor here? (%d)", i),
		})
		require.NoError(t, err)
		if i < 2 {
			assert.True(t, res.SearchUsed, "turn %d should search", i)
		} else {
			assert.False(t, res.SearchUsed, "turn %d must be capped", i)
		}
	}

	assert.Len(t, fx.search.queries, 2)
	assert.Equal(t, 2, fx.factory.store.projects[project.Id].SearchUsage[int(phase.Ideation)])
}

func TestSendChatExplicitSearchIsNotCapped(t *testing.T) {
	fx := newChatFixture(
		&scriptedLLM{replies: []string{"Summarized."}},
		&scriptedSearch{results: []search.Result{{Title: "Report", Snippet: "market data"}}},
	)
	project, userId := seedProject(fx.factory, phase.Ideation)

	for i := 0; i < 3; i++ {
		res, err := fx.service.SendChat(context.Background(), userId, &dto.SendChatRequest{
			ProjectId: project.Id, Message: "please research the habit tracker market",
		})
		require.NoError(t, err)
		assert.True(t, res.SearchUsed)
	}

	assert.Len(t, fx.search.queries, 3)
	assert.Zero(t, fx.factory.store.projects[project.Id].SearchUsage[int(phase.Ideation)])
}

func TestSendChatSearchFailureDoesNotFailTurn(t *testing.T) {
	fx := newChatFixture(
		&scriptedLLM{replies: []string{"Working without live data."}},
		&scriptedSearch{err: errors.New("upstream 500")},
	)
	project, userId := seedProject(fx.factory, phase.Ideation)

	res, err := fx.service.SendChat(context.Background(), userId, &dto.SendChatRequest{
		ProjectId: project.Id, Message: "research the competition",
	})
	require.NoError(t, err)
	assert.True(t, res.SearchUsed)
	assert.Equal(t, "Working without live data.", res.Reply)
}

func TestSendChatHeuristicNeverRunsWhenTagsPresent(t *testing.T) {
	reply := `Adding these features to your canvas:
## Meal Planner
- Weekly view
## Shopping List
- Shared lists
[UPDATE_CANVAS]
{"action": "add_node", "node": {"id": "feature-core", "type": "feature", "data": {"label": "Core"}, "parentId": "root"}}
[/UPDATE_CANVAS]`
	fx := newChatFixture(&scriptedLLM{replies: []string{reply}}, &scriptedSearch{})
	project, userId := seedProject(fx.factory, phase.FeatureMapping)

	res, err := fx.service.SendChat(context.Background(), userId, &dto.SendChatRequest{
		ProjectId: project.Id, Message: "map the features",
	})
	require.NoError(t, err)
	assert.True(t, res.CanvasUpdated)

	stored := fx.factory.store.projects[project.Id]
	// Only root plus the tagged node: the prose miner stays off.
	assert.Len(t, stored.Canvas.Nodes, 2)
	assert.NotNil(t, stored.Canvas.FindNode("feature-core"))
}

func TestSendChatHeuristicRecoversAnnouncedFeatures(t *testing.T) {
	reply := `Adding these features to your canvas:
## Meal Planner
- Weekly view
- Flow: plan a week`
	fx := newChatFixture(&scriptedLLM{replies: []string{reply}}, &scriptedSearch{})
	project, userId := seedProject(fx.factory, phase.FeatureMapping)

	res, err := fx.service.SendChat(context.Background(), userId, &dto.SendChatRequest{
		ProjectId: project.Id, Message: "map the features",
	})
	require.NoError(t, err)
	assert.True(t, res.CanvasUpdated)

	stored := fx.factory.store.projects[project.Id]
	assert.NotNil(t, stored.Canvas.FindNode("feature-meal-planner"))
}

func TestSendChatCapturesIdeationSummary(t *testing.T) {
	reply := `Locking the idea in.
[IDEATION_COMPLETE]
{"core_problem": "planning meals is tedious", "pain_point": "decision fatigue", "target_audience": "busy families", "current_solutions": "spreadsheets"}
[/IDEATION_COMPLETE]`
	fx := newChatFixture(&scriptedLLM{replies: []string{reply}}, &scriptedSearch{})
	project, userId := seedProject(fx.factory, phase.Ideation)

	_, err := fx.service.SendChat(context.Background(), userId, &dto.SendChatRequest{
		ProjectId: project.Id, Message: "sounds right",
	})
	require.NoError(t, err)

	summary := fx.factory.store.projects[project.Id].PhaseSummaries[int(phase.Ideation)]
	require.NotNil(t, summary)
	assert.Equal(t, "planning meals is tedious", summary["core_problem"])
	assert.Equal(t, "busy families", summary["target_audience"])
}

func TestSendChatDocumentPhaseShortCircuits(t *testing.T) {
	llmDouble := &scriptedLLM{replies: []string{"must not be used"}}
	fx := newChatFixture(llmDouble, &scriptedSearch{})
	project, userId := seedProject(fx.factory, phase.DocumentGeneration)

	res, err := fx.service.SendChat(context.Background(), userId, &dto.SendChatRequest{
		ProjectId: project.Id, Message: "how is the document coming along?",
	})
	require.NoError(t, err)
	assert.Equal(t, constant.DocumentPhaseAcknowledgement, res.Reply)
	assert.Zero(t, llmDouble.calls)

	history, err := fx.service.GetHistory(context.Background(), userId, project.Id, 4)
	require.NoError(t, err)
	assert.Len(t, history.Messages, 2)
}

func TestSendChatDelegatesDesignPhaseToStepController(t *testing.T) {
	llmDouble := &scriptedLLM{replies: []string{`{"features": ["Reminders", "Streaks", "Sharing", "Reports", "Widgets"]}`}}
	fx := newChatFixture(llmDouble, &scriptedSearch{})
	project, userId := seedProject(fx.factory, phase.Design)

	res, err := fx.service.SendChat(context.Background(), userId, &dto.SendChatRequest{
		ProjectId: project.Id, Message: "let's pick the design",
	})
	require.NoError(t, err)
	assert.Contains(t, res.Reply, "Reminders")

	// The step controller owns phase-3 persistence: exactly one exchange.
	history, err := fx.service.GetHistory(context.Background(), userId, project.Id, 3)
	require.NoError(t, err)
	assert.Len(t, history.Messages, 2)
}

func TestSendChatUnknownProject(t *testing.T) {
	fx := newChatFixture(&scriptedLLM{}, &scriptedSearch{})
	_, userId := seedProject(fx.factory, phase.Ideation)

	_, err := fx.service.SendChat(context.Background(), userId, &dto.SendChatRequest{
		ProjectId: uuid.New(), Message: "hello",
	})
	assert.ErrorIs(t, err, ErrNotFound)
}
