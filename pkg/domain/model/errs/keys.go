package errs

import (
	"github.com/diveops/watchkeeper/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

var (
	AlertIDKey    = goerr.NewTypedKey[types.AlertID]("alert_id")
	PolicyIDKey   = goerr.NewTypedKey[types.PolicyID]("policy_id")
	NoticeIDKey   = goerr.NewTypedKey[types.NoticeID]("notice_id")
	UserIDKey     = goerr.NewTypedKey[types.UserID]("user_id")
	ChannelKey    = goerr.NewTypedKey[types.ChannelID]("channel")
	RepositoryKey = goerr.NewTypedKey[string]("repository")
	OperationKey  = goerr.NewTypedKey[string]("operation")
	CountKey      = goerr.NewTypedKey[int]("count")
)

var (
	TagNotFound = goerr.NewTag("not_found")
	TagConflict = goerr.NewTag("conflict")
	TagExternal = goerr.NewTag("external")
	TagDatabase = goerr.NewTag("database")
	TagInternal = goerr.NewTag("internal")
)
