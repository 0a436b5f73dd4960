package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/roomboard/roomboard-core/internal/directory"
)

// handleListRooms returns the room directory. Hidden rooms are excluded
// unless ?include_hidden=true is set.
func (s *Server) handleListRooms(w http.ResponseWriter, r *http.Request) {
	var (
		rooms []directory.Room
		err   error
	)
	if r.URL.Query().Get("include_hidden") == "true" {
		rooms, err = s.rooms.ListRooms(r.Context())
	} else {
		rooms, err = s.rooms.ListVisibleRooms(r.Context())
	}
	if err != nil {
		s.logger.Error("listing rooms failed", "error", err)
		writeInternalError(w, "failed to list rooms")
		return
	}

	if rooms == nil {
		rooms = []directory.Room{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"rooms": rooms,
		"count": len(rooms),
	})
}

// patchRoomRequest carries the mutable room fields. Only the hidden flag is
// operator-editable; everything else comes from the directory file.
type patchRoomRequest struct {
	Hidden *bool `json:"hidden"`
}

// handlePatchRoom updates a room's visibility.
func (s *Server) handlePatchRoom(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")
	if roomID == "" {
		writeBadRequest(w, "room id is required")
		return
	}

	var req patchRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.Hidden == nil {
		writeBadRequest(w, "hidden field is required")
		return
	}

	if err := s.rooms.SetHidden(r.Context(), roomID, *req.Hidden); err != nil {
		if errors.Is(err, directory.ErrRoomNotFound) {
			writeNotFound(w, "room not found: "+roomID)
			return
		}
		s.logger.Error("updating room failed", "room_id", roomID, "error", err)
		writeInternalError(w, "failed to update room")
		return
	}

	room, err := s.rooms.GetRoom(r.Context(), roomID)
	if err != nil {
		s.logger.Error("reloading room failed", "room_id", roomID, "error", err)
		writeInternalError(w, "failed to load room")
		return
	}
	writeJSON(w, http.StatusOK, room)
}
