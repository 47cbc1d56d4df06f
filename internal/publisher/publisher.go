// Package publisher drives the platform's two-phase publish protocol:
// create a container, poll it until ready, publish it, then append the
// post to the account's history. History is written if and only if the
// state machine reaches DONE.
package publisher

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"threadcaster/internal/models"
	"threadcaster/internal/platform"
	"threadcaster/internal/store"
)

// State is the publisher state machine position.
type State string

const (
	StateCreating   State = "CREATING"
	StatePolling    State = "POLLING"
	StateFinished   State = "FINISHED"
	StatePublishing State = "PUBLISHING"
	StateDone       State = "DONE"
	StateError      State = "ERROR"
)

const (
	defaultPollInterval = 5 * time.Second
	defaultMaxPolls     = 12
)

// Request describes one publish call.
type Request struct {
	Account  models.Account
	Category string
	TopicKey string
	Text     string

	// ReplyToID targets another post when the text is a reply.
	ReplyToID string
}

// Publisher executes publish requests against the platform.
type Publisher struct {
	client  *platform.Client
	history *store.HistoryStore
	dryRun  bool
	log     *logrus.Entry

	pollInterval time.Duration
	maxPolls     int
}

// New creates a publisher. With dryRun set, no network call is made but a
// history record with a locally minted id is still appended.
func New(client *platform.Client, history *store.HistoryStore, dryRun bool, log *logrus.Entry) *Publisher {
	return &Publisher{
		client:       client,
		history:      history,
		dryRun:       dryRun,
		log:          log,
		pollInterval: defaultPollInterval,
		maxPolls:     defaultMaxPolls,
	}
}

// Publish runs the state machine and returns the final post id.
func (p *Publisher) Publish(ctx context.Context, req Request) (string, error) {
	if p.dryRun {
		postID := models.DryRunIDPrefix + uuid.New().String()
		p.log.WithField("post_id", postID).Info("dry run, publish suppressed")
		if err := p.appendRecord(req, postID); err != nil {
			return "", err
		}
		return postID, nil
	}

	state := StateCreating
	p.log.WithField("state", state).Debug("publishing")

	containerID, err := p.client.CreateContainer(ctx, req.Account.UserID, req.Text, req.ReplyToID)
	if err != nil {
		return "", fmt.Errorf("publish failed in %s: %w", state, err)
	}

	if err := p.awaitContainer(ctx, containerID); err != nil {
		return "", err
	}

	state = StatePublishing
	p.log.WithFields(logrus.Fields{"state": state, "container": containerID}).Debug("container ready")

	postID, err := p.client.PublishContainer(ctx, req.Account.UserID, containerID)
	if err != nil {
		return "", fmt.Errorf("publish failed in %s: %w", state, err)
	}

	if err := p.appendRecord(req, postID); err != nil {
		return "", err
	}

	p.log.WithFields(logrus.Fields{"state": StateDone, "post_id": postID}).Info("post published")
	return postID, nil
}

// awaitContainer polls the container until FINISHED. A not-found answer is
// transient (the container has not materialized yet); an explicit ERROR
// status is fatal with the platform's message; running out of the poll
// budget is fatal as well.
func (p *Publisher) awaitContainer(ctx context.Context, containerID string) error {
	for try := 1; try <= p.maxPolls; try++ {
		select {
		case <-time.After(p.pollInterval):
		case <-ctx.Done():
			return ctx.Err()
		}

		st, err := p.client.ContainerStatus(ctx, containerID)
		if err != nil {
			if platform.IsNotFound(err) {
				p.log.WithField("container", containerID).Debugf("container not visible yet (poll %d/%d)", try, p.maxPolls)
				continue
			}
			return fmt.Errorf("publish failed in %s: %w", StatePolling, err)
		}

		switch st.Status {
		case platform.StatusFinished, platform.StatusPublished:
			return nil
		case platform.StatusError, platform.StatusExpired:
			return fmt.Errorf("publish failed in %s: container reported %s: %s", StateError, st.Status, st.ErrorMessage)
		default:
			p.log.WithFields(logrus.Fields{"container": containerID, "status": st.Status}).Debugf("waiting (poll %d/%d)", try, p.maxPolls)
		}
	}
	return fmt.Errorf("publish failed in %s: container %s never became ready after %d polls", StatePolling, containerID, p.maxPolls)
}

func (p *Publisher) appendRecord(req Request, postID string) error {
	rec := models.PostRecord{
		Date:           time.Now(),
		Account:        req.Account.Name,
		Category:       req.Category,
		TopicKey:       req.TopicKey,
		Text:           req.Text,
		PlatformPostID: postID,
		CharCount:      len([]rune(req.Text)),
		RepliedTo:      req.ReplyToID,
	}
	if err := p.history.Append(req.Account.Name, rec); err != nil {
		return fmt.Errorf("post %s published but history append failed: %w", postID, err)
	}
	return nil
}
