package contract

import "context"

type SystemLogRepository interface {
	Record(ctx context.Context, action string, actorId *uint, details map[string]interface{}) error
	DeleteAll(ctx context.Context) error
}
