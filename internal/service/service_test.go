package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"ai-productforge-be/internal/entity"
	"ai-productforge-be/internal/repository/contract"
	"ai-productforge-be/internal/repository/specification"
	"ai-productforge-be/internal/repository/unitofwork"
	"ai-productforge-be/pkg/events"
	"ai-productforge-be/pkg/llm"
	"ai-productforge-be/pkg/search"
)

// In-memory doubles for the repository factory, model provider, search
// service and publishers. The repositories interpret the same specification
// types the GORM implementations translate to SQL.

type memStore struct {
	projects  map[uuid.UUID]*entity.Project
	messages  []*entity.Message
	documents []*entity.Document
}

func newMemStore() *memStore {
	return &memStore{projects: make(map[uuid.UUID]*entity.Project)}
}

type memFactory struct {
	store *memStore
}

func newMemFactory() *memFactory {
	return &memFactory{store: newMemStore()}
}

func (f *memFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &memUow{store: f.store}
}

type memUow struct {
	store *memStore
}

func (u *memUow) Begin(ctx context.Context) error { return nil }
func (u *memUow) Commit() error                   { return nil }
func (u *memUow) Rollback() error                 { return nil }

func (u *memUow) ProjectRepository() contract.ProjectRepository {
	return &memProjectRepo{store: u.store}
}

func (u *memUow) MessageRepository() contract.MessageRepository {
	return &memMessageRepo{store: u.store}
}

func (u *memUow) DocumentRepository() contract.DocumentRepository {
	return &memDocumentRepo{store: u.store}
}

// specFilter is the subset of specifications the services actually issue.
type specFilter struct {
	id         *uuid.UUID
	userId     *uuid.UUID
	projectId  *uuid.UUID
	phase      *int
	docType    *string
	orderDesc  bool
	hasOrderBy bool
}

func parseSpecs(specs []specification.Specification) specFilter {
	var f specFilter
	for _, s := range specs {
		switch v := s.(type) {
		case specification.ByID:
			id := v.ID
			f.id = &id
		case specification.ByUserId:
			id := v.UserId
			f.userId = &id
		case specification.ByProjectId:
			id := v.ProjectId
			f.projectId = &id
		case specification.ByPhase:
			p := v.Phase
			f.phase = &p
		case specification.ByDocumentType:
			t := v.Type
			f.docType = &t
		case specification.OrderBy:
			f.hasOrderBy = true
			f.orderDesc = v.Desc
		}
	}
	return f
}

type memProjectRepo struct {
	store *memStore
}

func (r *memProjectRepo) Create(ctx context.Context, project *entity.Project) error {
	clone := *project
	clone.CreatedAt = time.Now()
	r.store.projects[project.Id] = &clone
	*project = clone
	return nil
}

func (r *memProjectRepo) Update(ctx context.Context, project *entity.Project) error {
	clone := *project
	r.store.projects[project.Id] = &clone
	return nil
}

func (r *memProjectRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.store.projects, id)
	return nil
}

func (r *memProjectRepo) matches(p *entity.Project, f specFilter) bool {
	if f.id != nil && p.Id != *f.id {
		return false
	}
	if f.userId != nil && p.UserId != *f.userId {
		return false
	}
	return true
}

func (r *memProjectRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Project, error) {
	f := parseSpecs(specs)
	for _, p := range r.store.projects {
		if r.matches(p, f) {
			clone := *p
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *memProjectRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Project, error) {
	f := parseSpecs(specs)
	var out []*entity.Project
	for _, p := range r.store.projects {
		if r.matches(p, f) {
			clone := *p
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if f.orderDesc {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *memProjectRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

type memMessageRepo struct {
	store *memStore
}

func (r *memMessageRepo) Create(ctx context.Context, message *entity.Message) error {
	clone := *message
	clone.CreatedAt = time.Now().Add(time.Duration(len(r.store.messages)) * time.Millisecond)
	r.store.messages = append(r.store.messages, &clone)
	*message = clone
	return nil
}

func (r *memMessageRepo) DeleteAllByProjectId(ctx context.Context, projectId uuid.UUID) error {
	kept := r.store.messages[:0]
	for _, m := range r.store.messages {
		if m.ProjectId != projectId {
			kept = append(kept, m)
		}
	}
	r.store.messages = kept
	return nil
}

func (r *memMessageRepo) matches(m *entity.Message, f specFilter) bool {
	if f.projectId != nil && m.ProjectId != *f.projectId {
		return false
	}
	if f.phase != nil && int(m.Phase) != *f.phase {
		return false
	}
	return true
}

func (r *memMessageRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Message, error) {
	f := parseSpecs(specs)
	var out []*entity.Message
	for _, m := range r.store.messages {
		if r.matches(m, f) {
			clone := *m
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *memMessageRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

type memDocumentRepo struct {
	store *memStore
}

func (r *memDocumentRepo) Create(ctx context.Context, document *entity.Document) error {
	clone := *document
	clone.CreatedAt = time.Now()
	r.store.documents = append(r.store.documents, &clone)
	*document = clone
	return nil
}

func (r *memDocumentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	kept := r.store.documents[:0]
	for _, d := range r.store.documents {
		if d.Id != id {
			kept = append(kept, d)
		}
	}
	r.store.documents = kept
	return nil
}

func (r *memDocumentRepo) DeleteAllByProjectId(ctx context.Context, projectId uuid.UUID) error {
	kept := r.store.documents[:0]
	for _, d := range r.store.documents {
		if d.ProjectId != projectId {
			kept = append(kept, d)
		}
	}
	r.store.documents = kept
	return nil
}

func (r *memDocumentRepo) matches(d *entity.Document, f specFilter) bool {
	if f.id != nil && d.Id != *f.id {
		return false
	}
	if f.projectId != nil && d.ProjectId != *f.projectId {
		return false
	}
	if f.docType != nil && d.Type != *f.docType {
		return false
	}
	return true
}

func (r *memDocumentRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Document, error) {
	f := parseSpecs(specs)
	for _, d := range r.store.documents {
		if r.matches(d, f) {
			clone := *d
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *memDocumentRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Document, error) {
	f := parseSpecs(specs)
	var out []*entity.Document
	for _, d := range r.store.documents {
		if r.matches(d, f) {
			clone := *d
			out = append(out, &clone)
		}
	}
	return out, nil
}

// scriptedLLM replies from a queue; once drained it repeats the last reply.
// A nil queue with err set fails every call.
type scriptedLLM struct {
	replies []string
	err     error
	calls   int
	prompts []string
}

func (l *scriptedLLM) Chat(ctx context.Context, messages []llm.Message, opts ...llm.Option) (string, error) {
	l.calls++
	if len(messages) > 0 {
		l.prompts = append(l.prompts, messages[len(messages)-1].Content)
	}
	return l.next()
}

func (l *scriptedLLM) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	l.calls++
	l.prompts = append(l.prompts, prompt)
	return l.next()
}

func (l *scriptedLLM) next() (string, error) {
	if l.err != nil {
		return "", l.err
	}
	if len(l.replies) == 0 {
		return "", nil
	}
	reply := l.replies[0]
	if len(l.replies) > 1 {
		l.replies = l.replies[1:]
	}
	return reply, nil
}

type scriptedSearch struct {
	results []search.Result
	err     error
	queries []string
}

func (s *scriptedSearch) Search(ctx context.Context, query string) ([]search.Result, error) {
	s.queries = append(s.queries, query)
	if s.err != nil {
		return nil, s.err
	}
	return s.results, nil
}

type recordingPublisher struct {
	published [][]int
	err       error
}

func (p *recordingPublisher) PublishSectionPregeneration(ctx context.Context, projectId uuid.UUID, sections []int) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, sections)
	return nil
}

type recordingEventPublisher struct {
	events []events.Event
}

func (p *recordingEventPublisher) Publish(ctx context.Context, event events.Event) {
	p.events = append(p.events, event)
}

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }
