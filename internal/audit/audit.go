package audit

import (
	"context"

	"github.com/mohitbhaijaan/adi-ki-site-sub000/pkg/log"
)

// Audit actions for the admin console.
const (
	ActionLogin               = "admin.login"
	ActionLoginFailed         = "admin.login_failed"
	ActionDeleteChatSession   = "chat.session_delete"
	ActionCreateProduct       = "catalog.product_create"
	ActionUpdateProduct       = "catalog.product_update"
	ActionDeleteProduct       = "catalog.product_delete"
	ActionCreateCategory      = "catalog.category_create"
	ActionDeleteCategory      = "catalog.category_delete"
	ActionCreateResource      = "catalog.resource_create"
	ActionDeleteResource      = "catalog.resource_delete"
	ActionCreateAnnouncement  = "catalog.announcement_create"
	ActionDeleteAnnouncement  = "catalog.announcement_delete"
)

// Field constants for audit entries.
const (
	FieldAction = "action"
	FieldDetail = "detail"
)

// Log emits a structured audit log entry via the context logger.
func Log(ctx context.Context, action string, userID string, msg string) {
	l := log.Ctx(ctx)
	l.Info().
		Str(log.FieldLogType, log.LogTypeAudit).
		Str(FieldAction, action).
		Str(log.FieldUserID, userID).
		Msg(msg)
}

// LogWithDetail emits an audit log with extra detail field.
func LogWithDetail(ctx context.Context, action string, userID string, detail string, msg string) {
	l := log.Ctx(ctx)
	l.Info().
		Str(log.FieldLogType, log.LogTypeAudit).
		Str(FieldAction, action).
		Str(log.FieldUserID, userID).
		Str(FieldDetail, detail).
		Msg(msg)
}
