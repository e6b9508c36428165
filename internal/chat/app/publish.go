package app

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"messaging_service/internal/chat/domain"
	"messaging_service/internal/chat/repository"
	"messaging_service/pkg/logger"
	"messaging_service/pkg/metrics"

	"go.uber.org/zap"
)

// PublishTimeout bounds one background delivery, audience lookup included
var PublishTimeout = 5 * time.Second

// notifier resolves a chat's audience and publishes to it in the background.
// Failures are logged and counted only, callers never wait on delivery.
type notifier struct {
	groupRepo  repository.GroupRepository
	memberRepo repository.MembershipRepository
	publisher  repository.Publisher
	pending    *sync.WaitGroup
}

func newNotifier(groupRepo repository.GroupRepository, memberRepo repository.MembershipRepository, pub repository.Publisher) notifier {
	return notifier{groupRepo: groupRepo, memberRepo: memberRepo, publisher: pub, pending: &sync.WaitGroup{}}
}

// WaitPublished blocks until every event handed off so far is delivered or dropped
func (n notifier) WaitPublished() {
	n.pending.Wait()
}

// audience members of the chat's group, without exclude when it is non-zero
func (n notifier) audience(ctx context.Context, groupID, exclude uint) ([]uint, error) {
	ids, err := n.memberRepo.ListMemberIDs(ctx, groupID)
	if err != nil {
		return nil, err
	}
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id != exclude {
			out = append(out, id)
		}
	}
	return out, nil
}

func (n notifier) notify(ctx context.Context, name domain.EventName, chat *domain.Chat, actorID, exclude uint, payload interface{}) {
	fail := func(msg string, err error) {
		metrics.PublishFailures.WithLabelValues(string(name)).Inc()
		logger.Log.Error(msg,
			zap.String("event", string(name)),
			zap.Uint("chatID", chat.ID),
			zap.Error(err),
		)
	}

	// snapshot before returning, the caller owns payload afterwards
	body, err := json.Marshal(payload)
	if err != nil {
		fail("build event", err)
		return
	}
	chatID, groupID := chat.ID, chat.GroupID

	n.pending.Add(1)
	go func() {
		defer n.pending.Done()
		pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), PublishTimeout)
		defer cancel()

		recipients, err := n.audience(pubCtx, groupID, exclude)
		if err != nil {
			fail("resolve event audience", err)
			return
		}
		if len(recipients) == 0 {
			return
		}

		event, err := domain.NewEvent(name, chatID, actorID, recipients, json.RawMessage(body))
		if err != nil {
			fail("build event", err)
			return
		}
		if err := n.publisher.Publish(pubCtx, event); err != nil {
			fail("publish event", err)
			return
		}
		logger.Log.Debug("event published",
			zap.String("event", string(name)),
			zap.String("eventID", event.ID),
			zap.Int("recipients", len(recipients)),
		)
	}()
}
