package booking

import "errors"

var (
	ErrCatalogNotLoaded   = errors.New("booking: catalog not loaded")
	ErrDraftIncomplete    = errors.New("booking: draft incomplete")
	ErrNotAuthenticated   = errors.New("booking: not authenticated")
	ErrSubmissionInFlight = errors.New("booking: submission in flight")
	ErrWorkflowClosed     = errors.New("booking: workflow already submitted")
	ErrAccountChanged     = errors.New("booking: draft belongs to another account")
)

const (
	msgUnknownService = "Serviço indisponível."
	msgUnknownBarber  = "Barbeiro indisponível."
	msgInvalidDate    = "Data inválida."
	msgPastDate       = "Escolha uma data a partir de hoje."
	msgInvalidTime    = "Horário indisponível."
)
