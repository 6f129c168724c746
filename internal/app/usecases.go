package service

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/edytawrobel/team-coords-aiengineer/internal/adapters/catalog"
	"github.com/edytawrobel/team-coords-aiengineer/internal/adapters/repository"
	"github.com/edytawrobel/team-coords-aiengineer/internal/domain/model"
	"github.com/edytawrobel/team-coords-aiengineer/internal/domain/palette"
	"github.com/edytawrobel/team-coords-aiengineer/internal/domain/state"
	"github.com/edytawrobel/team-coords-aiengineer/internal/domain/types"
	"github.com/edytawrobel/team-coords-aiengineer/pkg/logger"
	"github.com/edytawrobel/team-coords-aiengineer/pkg/metrics"
)

const longDate = "Monday, January 2, 2006"

// Team

// AddMember creates a member with a fresh id and the first palette colour no
// one else is wearing.
func (s *Service) AddMember(ctx context.Context, in types.MemberInput) (model.TeamMember, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return model.TeamMember{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	m := model.TeamMember{
		ID:     s.newID(),
		Name:   name,
		Role:   strings.TrimSpace(in.Role),
		Avatar: strings.TrimSpace(in.Avatar),
		Color:  palette.Next(s.Snapshot().UsedColors()).Name,
	}
	if m.Role == "" {
		m.Role = model.DefaultRole
	}
	if m.Avatar == "" {
		m.Avatar = catalog.AvatarURL(name)
	}
	if _, err := s.dispatch(ctx, state.AddMember{Member: m}); err != nil {
		return model.TeamMember{}, err
	}
	s.mirrorMember(ctx, m)
	return m, nil
}

// UpdateMember edits name, role and avatar. The colour is kept.
func (s *Service) UpdateMember(ctx context.Context, id string, in types.MemberInput) (model.TeamMember, error) {
	cur, ok := s.Snapshot().Member(id)
	if !ok {
		return model.TeamMember{}, fmt.Errorf("%w: member %q", state.ErrNotFound, id)
	}
	if name := strings.TrimSpace(in.Name); name != "" {
		cur.Name = name
	}
	if role := strings.TrimSpace(in.Role); role != "" {
		cur.Role = role
	}
	if avatar := strings.TrimSpace(in.Avatar); avatar != "" {
		cur.Avatar = avatar
	}
	if _, err := s.dispatch(ctx, state.UpdateMember{Member: cur}); err != nil {
		return model.TeamMember{}, err
	}
	s.mirrorMember(ctx, cur)
	return cur, nil
}

// RemoveMember deletes a member together with their attendance, notes and
// summaries.
func (s *Service) RemoveMember(ctx context.Context, id string) error {
	if _, err := s.dispatch(ctx, state.RemoveMember{ID: id}); err != nil {
		return err
	}
	err := s.withRepository(func(repo repository.Repository) error {
		return repo.DeleteMember(ctx, id)
	})
	if err != nil {
		s.logger.Warn(ctx, "member row not deleted", logger.String("memberID", id), logger.Error(err))
	}
	return nil
}

// Team lists members in join order.
func (s *Service) Team() []model.TeamMember {
	return s.Snapshot().Team
}

// mirrorMember keeps the member table in step with the snapshot. It is a
// convenience copy; the snapshot stays authoritative.
func (s *Service) mirrorMember(ctx context.Context, m model.TeamMember) {
	err := s.withRepository(func(repo repository.Repository) error {
		return repo.UpsertMember(ctx, m)
	})
	if err != nil {
		s.logger.Warn(ctx, "member row not saved", logger.String("memberID", m.ID), logger.Error(err))
	}
}

// Sessions

// CreateCustomSession adds a team-owned session and signs the creator up
// for it in one step. If the creator is gone by then nothing is created.
func (s *Service) CreateCustomSession(ctx context.Context, creatorID string, in types.SessionInput) (model.Session, error) {
	creator, ok := s.Snapshot().Member(creatorID)
	if !ok {
		return model.Session{}, fmt.Errorf("%w: member %q", state.ErrNotFound, creatorID)
	}
	sess := s.customSession(s.newID(), in)
	sess.CreatedBy = creator.ID
	sess.Speaker = model.Speaker{ID: sess.ID + "_speaker", Name: creator.Name}

	if _, err := s.dispatch(ctx, state.AddSession{Session: sess, Attendee: creator.ID}); err != nil {
		return model.Session{}, err
	}
	return sess, nil
}

// UpdateSession edits a custom session. Catalog sessions are read-only.
func (s *Service) UpdateSession(ctx context.Context, id string, in types.SessionInput) (model.Session, error) {
	cur, err := s.customSessionByID(id)
	if err != nil {
		return model.Session{}, err
	}
	next := s.customSession(id, in)
	next.CreatedBy = cur.CreatedBy
	next.Speaker = cur.Speaker
	if _, err := s.dispatch(ctx, state.UpdateSession{Session: next}); err != nil {
		return model.Session{}, err
	}
	return next, nil
}

// DeleteSession removes a custom session and everything attached to it.
func (s *Service) DeleteSession(ctx context.Context, id string) error {
	if _, err := s.customSessionByID(id); err != nil {
		return err
	}
	_, err := s.dispatch(ctx, state.DeleteSession{ID: id})
	return err
}

func (s *Service) customSessionByID(id string) (model.Session, error) {
	cur, ok := s.Snapshot().Session(id)
	switch {
	case !ok:
		return model.Session{}, fmt.Errorf("%w: session %q", state.ErrNotFound, id)
	case !cur.IsCustom:
		return model.Session{}, fmt.Errorf("%w: %q", ErrCatalogSession, id)
	}
	return cur, nil
}

func (s *Service) customSession(id string, in types.SessionInput) model.Session {
	sess := model.Session{
		ID:          id,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Track:       model.CustomTrack,
		Room:        strings.TrimSpace(in.Room),
		Day:         in.Day,
		StartTime:   in.StartTime,
		EndTime:     in.EndTime,
		IsCustom:    true,
	}
	if in.Day >= model.MinDay && in.Day <= model.MaxDay {
		sess.Date = s.eventStart.AddDate(0, 0, in.Day-1).Format(longDate)
	}
	return sess
}

// Attendance

// pendingToggle is the outcome of a keyed toggle, published when done closes.
type pendingToggle struct {
	done chan struct{}
	res  types.Toggle
	err  error
}

// ToggleAttendance flips whether memberID attends sessionID. A repeated
// idempotency key does not toggle again: while the first request is still
// running the repeat waits for its outcome, afterwards it gets the current
// state.
func (s *Service) ToggleAttendance(ctx context.Context, sessionID, memberID, key string) (types.Toggle, error) {
	out := types.Toggle{SessionID: sessionID, MemberID: memberID}
	if _, err := s.ready(); err != nil {
		return out, err
	}
	if key == "" {
		return s.toggle(ctx, out)
	}

	s.inflightMu.Lock()
	if p, ok := s.inflight[key]; ok {
		s.inflightMu.Unlock()
		metrics.RecordRequestDuplicate()
		select {
		case <-p.done:
		case <-ctx.Done():
			return out, ctx.Err()
		}
		if p.err != nil {
			return out, p.err
		}
		res := p.res
		res.Duplicate = true
		return res, nil
	}
	if s.SeenAndRecord(ctx, key) {
		s.inflightMu.Unlock()
		out.Duplicate = true
		out.Attending = attending(s.Snapshot(), sessionID, memberID)
		return out, nil
	}
	p := &pendingToggle{done: make(chan struct{})}
	s.inflight[key] = p
	s.inflightMu.Unlock()

	p.res, p.err = s.toggle(ctx, out)
	if p.err != nil {
		s.Unrecord(ctx, key)
	}
	s.inflightMu.Lock()
	delete(s.inflight, key)
	s.inflightMu.Unlock()
	close(p.done)
	return p.res, p.err
}

func (s *Service) toggle(ctx context.Context, out types.Toggle) (types.Toggle, error) {
	snap, err := s.dispatch(ctx, state.ToggleAttendance{SessionID: out.SessionID, MemberID: out.MemberID})
	if err != nil {
		return out, err
	}
	out.Attending = attending(snap, out.SessionID, out.MemberID)
	return out, nil
}

func attending(snap model.Snapshot, sessionID, memberID string) bool {
	return slices.Contains(snap.Attendance, model.Attendance{SessionID: sessionID, MemberID: memberID})
}

// Notes

// AddNote attaches a note written by memberID to sessionID.
func (s *Service) AddNote(ctx context.Context, sessionID, memberID, content string) (model.Note, error) {
	now := s.now().UTC()
	n := model.Note{
		ID:        s.newID(),
		SessionID: sessionID,
		MemberID:  memberID,
		Content:   strings.TrimSpace(content),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.dispatch(ctx, state.AddNote{Note: n}); err != nil {
		return model.Note{}, err
	}
	return n, nil
}

// UpdateNote replaces a note's content.
func (s *Service) UpdateNote(ctx context.Context, id, content string) (model.Note, error) {
	n, ok := s.Snapshot().Note(id)
	if !ok {
		return model.Note{}, fmt.Errorf("%w: note %q", state.ErrNotFound, id)
	}
	n.Content = strings.TrimSpace(content)
	n.UpdatedAt = s.now().UTC()
	snap, err := s.dispatch(ctx, state.UpdateNote{Note: n})
	if err != nil {
		return model.Note{}, err
	}
	stored, _ := snap.Note(id)
	return stored, nil
}

func (s *Service) DeleteNote(ctx context.Context, id string) error {
	_, err := s.dispatch(ctx, state.DeleteNote{ID: id})
	return err
}

// Summaries

// AddSummary records a structured write-up of a session.
func (s *Service) AddSummary(ctx context.Context, in types.SummaryInput) (model.Summary, error) {
	now := s.now().UTC()
	sum := summaryFrom(in)
	sum.ID = s.newID()
	sum.CreatedAt = now
	sum.UpdatedAt = now
	if _, err := s.dispatch(ctx, state.AddSummary{Summary: sum}); err != nil {
		return model.Summary{}, err
	}
	return sum, nil
}

// UpdateSummary replaces a summary's content. Session and author are kept.
func (s *Service) UpdateSummary(ctx context.Context, id string, in types.SummaryInput) (model.Summary, error) {
	cur, ok := s.Snapshot().Summary(id)
	if !ok {
		return model.Summary{}, fmt.Errorf("%w: summary %q", state.ErrNotFound, id)
	}
	next := summaryFrom(in)
	next.ID = id
	next.SessionID = cur.SessionID
	next.AuthorID = cur.AuthorID
	next.CreatedAt = cur.CreatedAt
	next.UpdatedAt = s.now().UTC()
	if _, err := s.dispatch(ctx, state.UpdateSummary{Summary: next}); err != nil {
		return model.Summary{}, err
	}
	return next, nil
}

func (s *Service) DeleteSummary(ctx context.Context, id string) error {
	_, err := s.dispatch(ctx, state.DeleteSummary{ID: id})
	return err
}

func summaryFrom(in types.SummaryInput) model.Summary {
	return model.Summary{
		SessionID:          in.SessionID,
		AuthorID:           in.AuthorID,
		KeyTakeaways:       trimAll(in.KeyTakeaways),
		ActionableInsights: strings.TrimSpace(in.ActionableInsights),
		Resources:          trimAll(in.Resources),
		SpeakerContact:     strings.TrimSpace(in.SpeakerContact),
		Rating:             in.Rating,
	}
}

// trimAll drops blank entries, as the summary form submits empty rows.
func trimAll(items []string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			out = append(out, it)
		}
	}
	return out
}
