package httpapi

import (
	"net/http"

	"github.com/Hafsa-Ahmadi/Budget-flow/internal/middleware"
)

type createGroupRequest struct {
	Name    string   `json:"name"`
	Members []string `json:"members,omitempty"`
}

func (s *Server) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if err := decodeBody(r, &req); err != nil {
		respond(w, http.StatusBadRequest, envelope{Success: false, Message: "invalid request body"})
		return
	}

	group, err := s.groups.CreateGroup(r.Context(), req.Name, middleware.GetUserID(r.Context()), req.Members)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toGroupDTO(group))
}

func (s *Server) handleListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := s.groups.ListGroups(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		respondError(w, r, err)
		return
	}
	out := make([]groupDTO, 0, len(groups))
	for _, g := range groups {
		out = append(out, toGroupDTO(g))
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetGroup(w http.ResponseWriter, r *http.Request) {
	group, err := s.groups.GetGroup(r.Context(), r.PathValue("id"), middleware.GetUserID(r.Context()))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toGroupDTO(group))
}

type addMembersRequest struct {
	UserIDs []string `json:"userIds"`
}

func (s *Server) handleAddGroupMembers(w http.ResponseWriter, r *http.Request) {
	var req addMembersRequest
	if err := decodeBody(r, &req); err != nil {
		respond(w, http.StatusBadRequest, envelope{Success: false, Message: "invalid request body"})
		return
	}

	group, err := s.groups.AddMembers(r.Context(), r.PathValue("id"), middleware.GetUserID(r.Context()), req.UserIDs)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toGroupDTO(group))
}
