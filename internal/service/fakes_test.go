package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/lshigami/mbti-compass/internal/cache"
	"github.com/lshigami/mbti-compass/internal/model"
	"github.com/lshigami/mbti-compass/internal/repository"
	"gorm.io/datatypes"
)

type fakeQuestionRepo struct {
	mu        sync.Mutex
	questions map[uint]model.Question
	finds     int
	syncs     int
	findErr   error
}

func newFakeQuestionRepo(questions ...model.Question) *fakeQuestionRepo {
	r := &fakeQuestionRepo{questions: make(map[uint]model.Question)}
	for _, q := range questions {
		r.questions[q.ID] = q
	}
	return r
}

func (r *fakeQuestionRepo) FindAllOrdered(_ context.Context) ([]model.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finds++
	if r.findErr != nil {
		return nil, r.findErr
	}
	out := make([]model.Question, 0, len(r.questions))
	for _, q := range r.questions {
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeQuestionRepo) Sync(_ context.Context, inserts, updates []model.Question) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.syncs++
	for _, q := range inserts {
		if _, ok := r.questions[q.ID]; ok {
			return repository.ErrDuplicateKey
		}
		r.questions[q.ID] = q
	}
	for _, q := range updates {
		r.questions[q.ID] = q
	}
	return nil
}

func (r *fakeQuestionRepo) remove(id uint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.questions, id)
}

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID uint
	users  map[uint]model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uint]model.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return repository.ErrDuplicateKey
		}
	}
	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = time.Now().UTC()
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uint) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	return &u, nil
}

func (r *fakeUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) add(name, email string) uint {
	u := model.User{Name: name, Email: email}
	_ = r.Create(context.Background(), &u)
	return u.ID
}

type fakeResultRepo struct {
	mu      sync.Mutex
	nextID  uint
	results map[uint]model.TestResult
}

func newFakeResultRepo() *fakeResultRepo {
	return &fakeResultRepo{results: make(map[uint]model.TestResult)}
}

func (r *fakeResultRepo) Create(_ context.Context, result *model.TestResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.insert(result)
	return nil
}

func (r *fakeResultRepo) insert(result *model.TestResult) {
	r.nextID++
	result.ID = r.nextID
	r.results[result.ID] = *result
}

func (r *fakeResultRepo) FindByID(_ context.Context, id uint) (*model.TestResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.results[id]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	return &res, nil
}

func (r *fakeResultRepo) FindAllByUser(_ context.Context, userID uint) ([]model.TestResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.TestResult
	for _, res := range r.results {
		if res.UserID == userID {
			out = append(out, res)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CompletedAt.Equal(out[j].CompletedAt) {
			return out[i].CompletedAt.After(out[j].CompletedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *fakeResultRepo) FindLatestByUser(ctx context.Context, userID uint) (*model.TestResult, error) {
	all, _ := r.FindAllByUser(ctx, userID)
	if len(all) == 0 {
		return nil, repository.ErrRecordNotFound
	}
	return &all[0], nil
}

func (r *fakeResultRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.results)
}

type fakeSessionRepo struct {
	mu       sync.Mutex
	nextID   uint
	sessions map[uint]model.TestSession
	results  *fakeResultRepo
	updates  int
}

func newFakeSessionRepo(results *fakeResultRepo) *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[uint]model.TestSession), results: results}
}

func (r *fakeSessionRepo) Create(_ context.Context, session *model.TestSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	session.ID = r.nextID
	r.sessions[session.ID] = cloneSession(*session)
	return nil
}

func (r *fakeSessionRepo) Update(_ context.Context, session *model.TestSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[session.ID]; !ok {
		return repository.ErrRecordNotFound
	}
	r.updates++
	r.sessions[session.ID] = cloneSession(*session)
	return nil
}

func (r *fakeSessionRepo) FindByID(_ context.Context, id uint) (*model.TestSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	out := cloneSession(s)
	return &out, nil
}

func (r *fakeSessionRepo) FindLatestInProgress(_ context.Context, userID uint) (*model.TestSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var best *model.TestSession
	for _, s := range r.sessions {
		if s.UserID != userID || s.Status != model.SessionInProgress {
			continue
		}
		if best == nil || s.UpdatedAt.After(best.UpdatedAt) || (s.UpdatedAt.Equal(best.UpdatedAt) && s.ID > best.ID) {
			c := cloneSession(s)
			best = &c
		}
	}
	if best == nil {
		return nil, repository.ErrRecordNotFound
	}
	return best, nil
}

func (r *fakeSessionRepo) CancelInProgress(_ context.Context, userID uint, at time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, s := range r.sessions {
		if s.UserID == userID && s.Status == model.SessionInProgress {
			s.Status = model.SessionCancelled
			s.UpdatedAt = at
			r.sessions[id] = s
			n++
		}
	}
	return n, nil
}

func (r *fakeSessionRepo) CompleteWithResult(_ context.Context, session *model.TestSession, result *model.TestResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results.mu.Lock()
	defer r.results.mu.Unlock()
	result.SessionID = &session.ID
	r.results.insert(result)
	session.TestResultID = &result.ID
	r.updates++
	r.sessions[session.ID] = cloneSession(*session)
	return nil
}

func (r *fakeSessionRepo) stored(id uint) model.TestSession {
	r.mu.Lock()
	defer r.mu.Unlock()
	return cloneSession(r.sessions[id])
}

func (r *fakeSessionRepo) put(s model.TestSession) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = cloneSession(s)
}

type fakeChatRepo struct {
	mu       sync.Mutex
	nextID   uint
	messages []model.ChatMessage
}

func (r *fakeChatRepo) Create(_ context.Context, msg *model.ChatMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	msg.ID = r.nextID
	r.messages = append(r.messages, *msg)
	return nil
}

func (r *fakeChatRepo) FindAllByUser(_ context.Context, userID uint) ([]model.ChatMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.ChatMessage
	for _, m := range r.messages {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	return out, nil
}

// fixture wires every service against the in-memory fakes and the canonical catalog.
type fixture struct {
	questions *fakeQuestionRepo
	users     *fakeUserRepo
	sessions  *fakeSessionRepo
	results   *fakeResultRepo
	chats     *fakeChatRepo
	bank      *questionBankService
	svc       *testSessionService
	clock     *fakeClock
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

func newFixture() *fixture {
	f := &fixture{
		questions: newFakeQuestionRepo(),
		users:     newFakeUserRepo(),
		results:   newFakeResultRepo(),
		chats:     &fakeChatRepo{},
		clock:     &fakeClock{now: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)},
	}
	f.sessions = newFakeSessionRepo(f.results)
	f.bank = newQuestionBank(f.questions, cache.NewMemoryQuestionCache(0), CanonicalQuestions())
	svc := NewTestSessionService(f.bank, f.users, f.sessions, f.results).(*testSessionService)
	svc.now = f.clock.Now
	f.svc = svc
	return f
}

// cloneSession deep-copies a session so the fakes never share slices with callers.
func cloneSession(s model.TestSession) model.TestSession {
	out := s
	out.Answers = append(datatypes.JSONSlice[model.AnswerEntry]{}, s.Answers...)
	out.QuestionOrder = append(datatypes.JSONSlice[uint]{}, s.QuestionOrder...)
	if s.TestResultID != nil {
		id := *s.TestResultID
		out.TestResultID = &id
	}
	if s.CompletedAt != nil {
		at := *s.CompletedAt
		out.CompletedAt = &at
	}
	out.User = nil
	out.TestResult = nil
	return out
}
