package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-client/internal/httperr"
	"github.com/BruksfildServices01/barber-client/internal/httpresp"
	"github.com/BruksfildServices01/barber-client/internal/middleware"
	"github.com/BruksfildServices01/barber-client/internal/models"
)

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 200
)

// AuditLogsHandler lists the signed-in account's own activity.
type AuditLogsHandler struct {
	db *gorm.DB
}

func NewAuditLogsHandler(db *gorm.DB) *AuditLogsHandler {
	return &AuditLogsHandler{db: db}
}

type auditQuery struct {
	page   int
	limit  int
	action string
	from   *time.Time
}

// parseAuditQuery reads ?page, ?limit, ?action and ?from. A value that is
// present but malformed is rejected rather than replaced by its default.
func parseAuditQuery(c *gin.Context) (auditQuery, bool) {
	q := auditQuery{page: 1, limit: defaultAuditLimit, action: c.Query("action")}

	if s := c.Query("page"); s != "" {
		page, err := strconv.Atoi(s)
		if err != nil || page <= 0 {
			httperr.BadRequest(c, "invalid_page", "Página inválida.")
			return q, false
		}
		q.page = page
	}

	if s := c.Query("limit"); s != "" {
		limit, err := strconv.Atoi(s)
		if err != nil || limit <= 0 || limit > maxAuditLimit {
			httperr.BadRequest(c, "invalid_limit", "Limite inválido (1 a 200).")
			return q, false
		}
		q.limit = limit
	}

	if s := c.Query("from"); s != "" {
		from, err := time.Parse("2006-01-02", s)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "Data inválida. Use o formato AAAA-MM-DD.")
			return q, false
		}
		q.from = &from
	}

	return q, true
}

func (h *AuditLogsHandler) List(c *gin.Context) {
	accountID := c.GetString(middleware.ContextAccountID)

	params, ok := parseAuditQuery(c)
	if !ok {
		return
	}

	q := h.db.WithContext(c.Request.Context()).
		Model(&models.AuditLog{}).
		Where("account_id = ?", accountID)

	if params.action != "" {
		q = q.Where("action = ?", params.action)
	}
	if params.from != nil {
		q = q.Where("created_at >= ?", *params.from)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Internal(c, "audit_count_failed", "Erro ao contar registros.")
		return
	}

	var logs []models.AuditLog
	if err := q.
		Order("created_at DESC").
		Limit(params.limit).
		Offset((params.page - 1) * params.limit).
		Find(&logs).Error; err != nil {
		httperr.Internal(c, "audit_list_failed", "Erro ao listar registros.")
		return
	}

	httpresp.Page(c, logs, params.page, params.limit, total)
}
