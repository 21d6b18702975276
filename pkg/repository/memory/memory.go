package memory

import (
	"sync"

	"github.com/diveops/watchkeeper/pkg/domain/interfaces"
	"github.com/diveops/watchkeeper/pkg/domain/model/alert"
	"github.com/diveops/watchkeeper/pkg/domain/model/errs"
	"github.com/diveops/watchkeeper/pkg/domain/model/notice"
	"github.com/diveops/watchkeeper/pkg/domain/model/policy"
	"github.com/diveops/watchkeeper/pkg/domain/model/roster"
	"github.com/diveops/watchkeeper/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// Memory is the in-memory Repository used by tests and standalone dev mode.
type Memory struct {
	mu       sync.RWMutex
	noticeMu sync.RWMutex

	alerts   map[types.AlertID]*alert.Alert
	policies map[types.PolicyID]*policy.Policy
	members  map[types.UserID]*roster.Member
	notices  map[types.NoticeID]*notice.Notice

	eb *goerr.Builder
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		alerts:   make(map[types.AlertID]*alert.Alert),
		policies: make(map[types.PolicyID]*policy.Policy),
		members:  make(map[types.UserID]*roster.Member),
		notices:  make(map[types.NoticeID]*notice.Notice),
		eb:       goerr.NewBuilder(goerr.TV(errs.RepositoryKey, "memory")),
	}
}
