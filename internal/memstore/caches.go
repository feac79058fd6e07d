package memstore

import (
	"context"
	"hireflow/internal/cache"
	"hireflow/internal/callflow"
	"hireflow/internal/model"
	"sort"
	"sync"
	"time"
)

// Wizards implements cache.WizardCache
type Wizards struct {
	t     *table[model.WizardSession]
	mu    sync.Mutex
	locks map[string]bool
}

func NewWizards() *Wizards {
	return &Wizards{t: newTable[model.WizardSession](), locks: make(map[string]bool)}
}

func (c *Wizards) Save(ctx context.Context, ws *model.WizardSession) error {
	c.t.put(ws.ID, ws)
	return nil
}

func (c *Wizards) Get(ctx context.Context, id string) (*model.WizardSession, error) {
	return c.t.get(id), nil
}

func (c *Wizards) Delete(ctx context.Context, id string) error {
	c.t.remove(id)
	return c.ReleaseSubmitLock(ctx, id)
}

func (c *Wizards) AcquireSubmitLock(ctx context.Context, id string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.locks[id] {
		return false, nil
	}
	c.locks[id] = true
	return true, nil
}

func (c *Wizards) ReleaseSubmitLock(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.locks, id)
	return nil
}

type otpEntry struct {
	otp     cache.OTP
	expires time.Time
}

// OTPs implements cache.OTPCache
type OTPs struct {
	mu   sync.Mutex
	rows map[string]*otpEntry
	now  func() time.Time
}

func NewOTPs() *OTPs {
	return &OTPs{rows: make(map[string]*otpEntry), now: time.Now}
}

func (c *OTPs) live(subject string) *otpEntry {
	e, ok := c.rows[subject]
	if !ok {
		return nil
	}
	if !c.now().Before(e.expires) {
		delete(c.rows, subject)
		return nil
	}
	return e
}

func (c *OTPs) Set(ctx context.Context, subject string, otp cache.OTP, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rows[subject] = &otpEntry{otp: otp, expires: c.now().Add(ttl)}
	return nil
}

func (c *OTPs) Get(ctx context.Context, subject string) (*cache.OTP, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.live(subject)
	if e == nil {
		return nil, nil
	}
	otp := e.otp
	return &otp, nil
}

func (c *OTPs) IncrAttempts(ctx context.Context, subject string) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.live(subject)
	if e == nil {
		return 0, nil
	}
	e.otp.Attempts++
	return e.otp.Attempts, nil
}

func (c *OTPs) Delete(ctx context.Context, subject string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.rows, subject)
	return nil
}

// CallSessions implements cache.CallSessionCache
type CallSessions struct {
	sessions   *table[callflow.Session]
	applicants *table[model.Applicant]
}

func NewCallSessions() *CallSessions {
	return &CallSessions{
		sessions:   newTable[callflow.Session](),
		applicants: newTable[model.Applicant](),
	}
}

func (c *CallSessions) Set(ctx context.Context, s *callflow.Session) error {
	c.sessions.put(s.ID, s)
	return nil
}

func (c *CallSessions) Get(ctx context.Context, id string) (*callflow.Session, error) {
	return c.sessions.get(id), nil
}

func (c *CallSessions) Delete(ctx context.Context, id string) error {
	c.sessions.remove(id)
	c.applicants.remove(id)
	return nil
}

func (c *CallSessions) SetApplicant(ctx context.Context, sessionID string, a *model.Applicant) error {
	c.applicants.put(sessionID, a)
	return nil
}

func (c *CallSessions) GetApplicant(ctx context.Context, sessionID string) (*model.Applicant, error) {
	return c.applicants.get(sessionID), nil
}

// Conferences implements cache.ConferenceCache
type Conferences struct {
	mu    sync.Mutex
	rooms map[string]map[string]model.Participant
}

func NewConferences() *Conferences {
	return &Conferences{rooms: make(map[string]map[string]model.Participant)}
}

func (c *Conferences) SetParticipant(ctx context.Context, sessionID string, p *model.Participant) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	room, ok := c.rooms[sessionID]
	if !ok {
		room = make(map[string]model.Participant)
		c.rooms[sessionID] = room
	}
	room[p.ID] = *p
	return nil
}

func (c *Conferences) GetParticipant(ctx context.Context, sessionID, participantID string) (*model.Participant, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.rooms[sessionID][participantID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (c *Conferences) Participants(ctx context.Context, sessionID string) ([]*model.Participant, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*model.Participant, 0, len(c.rooms[sessionID]))
	for _, p := range c.rooms[sessionID] {
		p := p
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (c *Conferences) Clear(ctx context.Context, sessionID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.rooms, sessionID)
	return nil
}

var (
	_ cache.WizardCache      = (*Wizards)(nil)
	_ cache.OTPCache         = (*OTPs)(nil)
	_ cache.CallSessionCache = (*CallSessions)(nil)
	_ cache.ConferenceCache  = (*Conferences)(nil)
)
