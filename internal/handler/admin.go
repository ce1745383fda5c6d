package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pavelanni/scanner/internal/handler/views"
	"github.com/pavelanni/scanner/internal/model"
	"github.com/pavelanni/scanner/internal/quiz"
)

const recentScans = 20

func (h *Handler) handleAdminScansPage(w http.ResponseWriter, r *http.Request) {
	total, err := h.store.ScanCount()
	if err != nil {
		slog.Error("failed to count scans", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	tally, err := h.store.ArchetypeTally()
	if err != nil {
		slog.Error("failed to tally scans", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	recent, err := h.store.ListScans(recentScans)
	if err != nil {
		slog.Error("failed to list scans", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	info, err := h.store.GetEventInfo()
	if err != nil {
		slog.Error("failed to read event info", "error", err)
	}

	v := views.AdminScansView{
		Info:   info,
		Total:  total,
		Recent: recent,
		Titles: make(map[string]string),
	}
	for _, a := range quiz.Archetypes() {
		v.Tally = append(v.Tally, views.TallyRow{Archetype: a, Count: tally[a.Key]})
		v.Titles[a.Key] = a.Emoji + " " + a.Title
	}
	if u := model.UserFromContext(r.Context()); u != nil {
		v.IsAdmin = u.Role == model.UserRoleAdmin
	}
	h.render(w, r, http.StatusOK, views.AdminScansPage(v))
}

func (h *Handler) handleAdminExport(w http.ResponseWriter, r *http.Request) {
	export, err := h.store.ExportScans(model.EventInfo{})
	if err != nil {
		slog.Error("failed to export scans", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="scans-%s.json"`, export.ExportedAt.Format("20060102-150405")))
	_, _ = w.Write(data)
}

func (h *Handler) handleClearScans(w http.ResponseWriter, r *http.Request) {
	n, err := h.store.DeleteScans()
	if err != nil {
		slog.Error("failed to clear scans", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	slog.Info("cleared booth tally", "scans", n, "by", model.UserFromContext(r.Context()).Username)
	http.Redirect(w, r, h.path("/admin"), http.StatusSeeOther)
}

func (h *Handler) handleAdminUsersPage(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.ListUsers()
	if err != nil {
		slog.Error("failed to list users", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.render(w, r, http.StatusOK, views.AdminUsersPage(users, ""))
}

func (h *Handler) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	displayName := r.FormValue("display_name")
	password := r.FormValue("password")
	role := model.UserRole(r.FormValue("role"))

	if username == "" || password == "" {
		http.Error(w, "username and password required", http.StatusBadRequest)
		return
	}
	if role != model.UserRoleAdmin {
		role = model.UserRoleOperator
	}
	if displayName == "" {
		displayName = username
	}

	if _, err := h.store.CreateOperator(username, displayName, password, role); err != nil {
		http.Error(w, "failed to create user: "+err.Error(), http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, h.path("/admin/users"), http.StatusSeeOther)
}

func (h *Handler) handleToggleUserActive(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		http.Error(w, "invalid user ID", http.StatusBadRequest)
		return
	}
	if self := model.UserFromContext(r.Context()); self != nil && self.ID == id {
		http.Error(w, "cannot deactivate yourself", http.StatusBadRequest)
		return
	}

	if err := h.store.ToggleUserActive(id); err != nil {
		slog.Error("failed to toggle user active", "id", id, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := h.store.DeleteUserSessions(id); err != nil {
		slog.Warn("failed to sign out toggled user", "id", id, "error", err)
	}

	http.Redirect(w, r, h.path("/admin/users"), http.StatusSeeOther)
}
