package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/sbilibin2017/microblog/internal/models"
)

// NewNotificationsHandler returns the caller's notifications newer than ?since=,
// given in unix seconds with an optional fractional part.
// @Summary Poll notifications
// @Tags notifications
// @Produce json
// @Param since query number false "Unix seconds" default(0)
// @Success 200 {array} models.NotificationResponse
// @Failure 400 {object} handlers.ErrorResponse
// @Security BearerAuth
// @Router /notifications [get]
func NewNotificationsHandler(svc NotificationReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(w, r)
		if !ok {
			return
		}

		since := time.Unix(0, 0).UTC()
		if raw := r.URL.Query().Get("since"); raw != "" {
			sec, err := strconv.ParseFloat(raw, 64)
			if err != nil || sec < 0 {
				writeError(w, http.StatusBadRequest, "Invalid since")
				return
			}
			since = models.FromUnixSeconds(sec)
		}

		ns, err := svc.NotificationsSince(r.Context(), userID, since)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		out := make([]models.NotificationResponse, 0, len(ns))
		for _, n := range ns {
			out = append(out, models.NotificationResponse{
				Name:      n.Name,
				Data:      n.Payload,
				Timestamp: models.UnixSeconds(n.Timestamp),
			})
		}

		writeJSON(w, http.StatusOK, out)
	}
}
