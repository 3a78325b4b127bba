package moderation

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"bazar-bot/internal/listing"
	"bazar-bot/internal/storage"

	"go.uber.org/zap"
)

var (
	ErrForbidden        = errors.New("moderation: actor is not a moderator")
	ErrNotFound         = errors.New("moderation: submission not found")
	ErrAlreadyProcessed = errors.New("moderation: submission already processed")
	ErrSelectionExpired = errors.New("moderation: tag selection is no longer open")
	ErrUnknownTag       = errors.New("moderation: unknown tag")
	ErrBusy             = errors.New("moderation: submission is being decided")
)

type Store interface {
	GetSubmission(id int64) (*listing.Submission, error)
	TryTransition(id int64, to listing.Status, d storage.Decision) (bool, error)
}

// Publisher emits an approved submission to the public destination.
type Publisher interface {
	Publish(sub *listing.Submission, tags []string) error
}

type Notifier interface {
	NotifyPublished(sub *listing.Submission) error
	NotifyDenied(sub *listing.Submission, reason string) error
}

// DenyResult describes a denial that went through.
type DenyResult struct {
	Submission *listing.Submission
	Prompt     PendingDeny
}

type Coordinator struct {
	store      Store
	publisher  Publisher
	notifier   Notifier
	moderators map[int64]struct{}
	selections *Selections
	logger     *zap.Logger

	mu       sync.Mutex
	inflight map[int64]struct{}
}

func NewCoordinator(store Store, publisher Publisher, notifier Notifier, moderatorIDs []int64, logger *zap.Logger) *Coordinator {
	moderators := make(map[int64]struct{}, len(moderatorIDs))
	for _, id := range moderatorIDs {
		moderators[id] = struct{}{}
	}
	return &Coordinator{
		store:      store,
		publisher:  publisher,
		notifier:   notifier,
		moderators: moderators,
		selections: NewSelections(),
		logger:     logger,
		inflight:   make(map[int64]struct{}),
	}
}

func (c *Coordinator) IsModerator(userID int64) bool {
	_, ok := c.moderators[userID]
	return ok
}

// claim marks a submission as being decided in this process. A second
// concurrent decision on the same id is refused until release.
func (c *Coordinator) claim(id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, busy := c.inflight[id]; busy {
		return false
	}
	c.inflight[id] = struct{}{}
	return true
}

func (c *Coordinator) release(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.inflight, id)
}

func (c *Coordinator) pending(actor, id int64) (*listing.Submission, error) {
	if !c.IsModerator(actor) {
		return nil, ErrForbidden
	}
	sub, err := c.store.GetSubmission(id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load submission %d: %w", id, err)
	}
	if !sub.IsPending() {
		return nil, ErrAlreadyProcessed
	}
	return sub, nil
}

// Approve checks that the submission can still be approved. Nothing changes yet;
// the moderator picks between publishing right away and choosing hashtags.
func (c *Coordinator) Approve(actor, id int64) (*listing.Submission, error) {
	return c.pending(actor, id)
}

func (c *Coordinator) StartTagging(actor, id int64) ([]string, error) {
	if _, err := c.pending(actor, id); err != nil {
		return nil, err
	}
	return c.selections.OpenPicker(actor, id), nil
}

func (c *Coordinator) ToggleTag(actor, id int64, tagIndex int) ([]string, error) {
	if !c.IsModerator(actor) {
		return nil, ErrForbidden
	}
	tag, ok := listing.TagAt(tagIndex)
	if !ok {
		return nil, ErrUnknownTag
	}
	tags, ok := c.selections.Toggle(actor, id, tag)
	if !ok {
		return nil, ErrSelectionExpired
	}
	return tags, nil
}

func (c *Coordinator) CancelTagging(actor, id int64) error {
	if !c.IsModerator(actor) {
		return ErrForbidden
	}
	c.selections.ClosePicker(actor, id)
	return nil
}

func (c *Coordinator) ConfirmTags(actor, id int64) (*listing.Submission, error) {
	if !c.IsModerator(actor) {
		return nil, ErrForbidden
	}
	tags, ok := c.selections.Picked(actor, id)
	if !ok {
		return nil, ErrSelectionExpired
	}
	return c.publish(actor, id, tags)
}

func (c *Coordinator) PublishWithoutTags(actor, id int64) (*listing.Submission, error) {
	return c.publish(actor, id, nil)
}

func (c *Coordinator) publish(actor, id int64, tags []string) (*listing.Submission, error) {
	if !c.IsModerator(actor) {
		return nil, ErrForbidden
	}
	if !c.claim(id) {
		return nil, ErrAlreadyProcessed
	}
	defer c.release(id)

	sub, err := c.pending(actor, id)
	if err != nil {
		return nil, err
	}
	if err := c.publisher.Publish(sub, tags); err != nil {
		return nil, fmt.Errorf("failed to publish submission %d: %w", id, err)
	}
	ok, err := c.store.TryTransition(id, listing.StatusApproved, storage.Decision{ModeratorID: actor, Tags: tags})
	if err != nil {
		c.logger.Error("submission published but approval was not recorded",
			zap.Int64("submission_id", id), zap.Int64("moderator_id", actor), zap.Error(err))
		return nil, fmt.Errorf("failed to record approval of submission %d: %w", id, err)
	}
	if !ok {
		c.logger.Warn("submission was decided elsewhere during publication",
			zap.Int64("submission_id", id), zap.Int64("moderator_id", actor))
		return nil, ErrAlreadyProcessed
	}
	c.selections.ClosePicker(actor, id)

	sub.Status = listing.StatusApproved
	sub.Tags = tags
	sub.ModeratorID = actor
	c.logger.Info("submission approved",
		zap.Int64("submission_id", id), zap.Int64("moderator_id", actor), zap.Strings("tags", tags))

	if err := c.notifier.NotifyPublished(sub); err != nil {
		c.logger.Warn("failed to notify submitter about publication",
			zap.Int64("submission_id", id), zap.Int64("user_id", sub.SubmitterID), zap.Error(err))
	}
	return sub, nil
}

// Deny checks the submission is pending and waits for the moderator's next
// text message as the reason. A later Deny from the same moderator replaces it.
func (c *Coordinator) Deny(actor, id, chatID int64, messageID int) error {
	if _, err := c.pending(actor, id); err != nil {
		return err
	}
	c.selections.SetPendingDeny(actor, PendingDeny{SubmissionID: id, ChatID: chatID, MessageID: messageID})
	return nil
}

func (c *Coordinator) AwaitingReason(actor int64) bool {
	return c.IsModerator(actor) && c.selections.HasPendingDeny(actor)
}

// CancelDeny drops the moderator's outstanding deny prompt, if any.
func (c *Coordinator) CancelDeny(actor int64) (PendingDeny, bool) {
	if !c.IsModerator(actor) {
		return PendingDeny{}, false
	}
	return c.selections.TakePendingDeny(actor)
}

// ResolveDeny consumes reason as the answer to the moderator's outstanding
// deny prompt. handled is false when there is no prompt, so the message can be
// treated as ordinary input. A prompt for a submission decided in the meantime
// is dropped without side effects: handled is true and the result is nil.
// ErrBusy means another decision on the submission is still running; the
// prompt stays pending so the moderator can send the reason again.
func (c *Coordinator) ResolveDeny(actor int64, reason string) (res *DenyResult, handled bool, err error) {
	if !c.IsModerator(actor) {
		return nil, false, nil
	}
	prompt, ok := c.selections.TakePendingDeny(actor)
	if !ok {
		return nil, false, nil
	}
	id := prompt.SubmissionID
	if !c.claim(id) {
		// Another decision is in flight and may still fail; keep the prompt.
		c.selections.SetPendingDeny(actor, prompt)
		return nil, true, ErrBusy
	}
	defer c.release(id)

	ok, err = c.store.TryTransition(id, listing.StatusDenied, storage.Decision{ModeratorID: actor, Reason: reason})
	if err != nil {
		return nil, true, fmt.Errorf("failed to record denial of submission %d: %w", id, err)
	}
	if !ok {
		c.logger.Info("dropping deny reason for submission that is no longer pending",
			zap.Int64("submission_id", id), zap.Int64("moderator_id", actor))
		return nil, true, nil
	}

	sub, err := c.store.GetSubmission(id)
	if err != nil {
		return nil, true, fmt.Errorf("failed to load denied submission %d: %w", id, err)
	}
	c.logger.Info("submission denied", zap.Int64("submission_id", id), zap.Int64("moderator_id", actor))

	if err := c.notifier.NotifyDenied(sub, reason); err != nil {
		c.logger.Warn("failed to notify submitter about denial",
			zap.Int64("submission_id", id), zap.Int64("user_id", sub.SubmitterID), zap.Error(err))
	}
	return &DenyResult{Submission: sub, Prompt: prompt}, true, nil
}

// Sweep forgets pickers and deny prompts abandoned before cutoff.
func (c *Coordinator) Sweep(cutoff time.Time) {
	pickers, denies := c.selections.Sweep(cutoff)
	if pickers > 0 || denies > 0 {
		c.logger.Info("expired moderator selections", zap.Int("pickers", pickers), zap.Int("deny_prompts", denies))
	}
}
