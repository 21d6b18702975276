package usecase

import (
	"github.com/diveops/watchkeeper/pkg/domain/interfaces"
	"github.com/diveops/watchkeeper/pkg/repository/memory"
	policyService "github.com/diveops/watchkeeper/pkg/service/policy"
	rosterService "github.com/diveops/watchkeeper/pkg/service/roster"
	"github.com/diveops/watchkeeper/pkg/service/notifier"
)

type UseCases struct {
	repository  interfaces.Repository
	emailClient interfaces.EmailClient
	slackClient interfaces.SlackClient

	// services built over the repository
	policy     *policyService.Service
	roster     *rosterService.Service
	dispatcher *notifier.Dispatcher
}

type Option func(*UseCases)

func WithRepository(repository interfaces.Repository) Option {
	return func(u *UseCases) {
		u.repository = repository
	}
}

func WithEmailClient(client interfaces.EmailClient) Option {
	return func(u *UseCases) {
		u.emailClient = client
	}
}

func WithSlackClient(client interfaces.SlackClient) Option {
	return func(u *UseCases) {
		u.slackClient = client
	}
}

func New(opts ...Option) *UseCases {
	u := &UseCases{
		repository: memory.New(),
	}

	for _, opt := range opts {
		opt(u)
	}

	u.policy = policyService.New(u.repository)
	u.roster = rosterService.New(u.repository)

	var dispatcherOpts []notifier.Option
	if u.emailClient != nil {
		dispatcherOpts = append(dispatcherOpts, notifier.WithEmail(u.emailClient))
	}
	if u.slackClient != nil {
		dispatcherOpts = append(dispatcherOpts, notifier.WithSlack(u.slackClient))
	}
	u.dispatcher = notifier.New(u.repository, dispatcherOpts...)

	return u
}

// Repository exposes the configured repository for controllers that serve
// read models, e.g. the notice feed.
func (u *UseCases) Repository() interfaces.Repository {
	return u.repository
}
