package handlers

import (
	"net/http"

	"github.com/BruksfildServices01/barber-client/internal/booking"
	"github.com/BruksfildServices01/barber-client/internal/history"
	"github.com/BruksfildServices01/barber-client/internal/httperr"
	"github.com/BruksfildServices01/barber-client/internal/session"
)

var sessionRules = []httperr.Rule{
	{Target: session.ErrSignInInProgress, Status: http.StatusConflict, Code: "sign_in_in_progress", Message: "Aguarde, o login já está em andamento."},
	{Target: session.ErrAlreadySignedIn, Status: http.StatusConflict, Code: "already_signed_in", Message: "Você já está conectado."},
}

var bookingRules = []httperr.Rule{
	{Target: booking.ErrCatalogNotLoaded, Status: http.StatusConflict, Code: "catalog_not_loaded", Message: "Não foi possível carregar os serviços."},
	{Target: booking.ErrDraftIncomplete, Status: http.StatusBadRequest, Code: "draft_incomplete", Message: "Por favor, preencha todos os campos."},
	{Target: booking.ErrNotAuthenticated, Status: http.StatusUnauthorized, Code: "not_authenticated", Message: "Usuário não autenticado."},
	{Target: booking.ErrSubmissionInFlight, Status: http.StatusConflict, Code: "submission_in_flight", Message: "Seu agendamento está sendo enviado. Aguarde."},
	{Target: booking.ErrAccountChanged, Status: http.StatusConflict, Code: "account_changed", Message: "Sua sessão mudou. Comece o agendamento novamente."},
	{Target: booking.ErrWorkflowClosed, Status: http.StatusConflict, Code: "booking_closed", Message: "Este agendamento já foi enviado. Inicie um novo."},
}

var historyRules = []httperr.Rule{
	{Target: history.ErrNotAuthenticated, Status: http.StatusUnauthorized, Code: "not_authenticated", Message: "Usuário não autenticado."},
}
