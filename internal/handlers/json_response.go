package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeJSONMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"message": message})
}

func writeJSONErrorResponse(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, map[string]any{"error": code, "message": message})
}

type paginationParams struct {
	page     int
	pageSize int
	limit    int
	offset   int
}

func parsePaginationParams(r *http.Request, defaultSize, maxSize int) (paginationParams, error) {
	page := 1
	pageSize := defaultSize

	if v := r.URL.Query().Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return paginationParams{}, fmt.Errorf("invalid page %q", v)
		}
		page = n
	}
	if v := r.URL.Query().Get("page_size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return paginationParams{}, fmt.Errorf("invalid page_size %q", v)
		}
		pageSize = n
	}
	if pageSize > maxSize {
		pageSize = maxSize
	}

	return paginationParams{
		page:     page,
		pageSize: pageSize,
		limit:    pageSize,
		offset:   (page - 1) * pageSize,
	}, nil
}

func writePaginatedResponse(w http.ResponseWriter, status int, data any, page, pageSize, total int) {
	writeJSON(w, status, map[string]any{
		"data":      data,
		"page":      page,
		"page_size": pageSize,
		"total":     total,
	})
}
