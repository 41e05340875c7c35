package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/wavebinder/ltcbridge/pkg/logger"
	"github.com/wavebinder/ltcbridge/pkg/ltcbridge"
	"github.com/wavebinder/ltcbridge/pkg/ltcbridge/storage"
)

// Server encapsulates the HTTP server and its dependencies
type Server struct {
	service ltcbridge.Service
	config  *ServerConfig
	log     ltcbridge.Logger
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           int
	DBPath         string
	TempDir        string
	Channel        int
	AllowedOrigins []string
}

// NewServer creates a new server instance
func NewServer(service ltcbridge.Service, config *ServerConfig) *Server {
	return &Server{
		service: service,
		config:  config,
		log:     logger.GetLogger(),
	}
}

// respondJSON writes a JSON response
func (s *Server) respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Errorf("Failed to encode JSON response: %v", err)
	}
}

// respondError writes an error response
func (s *Server) respondError(w http.ResponseWriter, statusCode int, message string) {
	s.respondJSON(w, statusCode, ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
		Code:    statusCode,
	})
}

func recordToDTO(r *storage.Record) RecordDTO {
	return RecordDTO{
		ID:         r.ID,
		SourcePath: r.SourcePath,
		OutputPath: r.OutputPath,
		Timecode:   r.Timecode,
		DropFrame:  r.DropFrame,
		Method:     r.Method,
		SampleRate: r.SampleRate,
		DurationMs: r.DurationMs,
		CreatedAt:  r.CreatedAt,
	}
}

// handleRoot handles GET /
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"service": "LTCBridge API",
		"version": "1.0.0",
		"endpoints": map[string]string{
			"health":       "GET /health",
			"metrics":      "GET /api/health/metrics",
			"decode":       "POST /api/decode",
			"records":      "GET /api/records",
			"getRecord":    "GET /api/records/{id}",
			"deleteRecord": "DELETE /api/records/{id}",
		},
	})
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// handleMetrics handles GET /api/health/metrics
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	records, err := s.service.ListRecords()
	if err != nil {
		s.log.Errorf("Failed to get record count: %v", err)
		s.respondError(w, http.StatusInternalServerError, "Failed to retrieve metrics")
		return
	}

	s.respondJSON(w, http.StatusOK, MetricsResponse{
		Status:       "healthy",
		DatabasePath: s.config.DBPath,
		RecordCount:  len(records),
		Channel:      s.config.Channel,
	})
}

// handleDecode handles POST /api/decode (multipart WAV upload)
func (s *Server) handleDecode(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
	defer cancel()

	if err := r.ParseMultipartForm(MaxUploadBytes); err != nil {
		s.log.Errorf("Failed to parse form: %v", err)
		s.respondError(w, http.StatusBadRequest, "Failed to parse form data")
		return
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		s.log.Errorf("Failed to get audio file: %v", err)
		s.respondError(w, http.StatusBadRequest, "audio file is required")
		return
	}
	defer file.Close()

	// Save to a temporary file; the decode pipeline works off paths so
	// the external decoder can see the same bytes.
	tempFile := filepath.Join(s.config.TempDir, fmt.Sprintf("decode_%d_%s", time.Now().UnixNano(), header.Filename))
	out, err := os.Create(tempFile)
	if err != nil {
		s.log.Errorf("Failed to create temp file: %v", err)
		s.respondError(w, http.StatusInternalServerError, "Failed to process upload")
		return
	}
	defer out.Close()
	defer os.Remove(tempFile)

	if _, err := io.Copy(out, file); err != nil {
		s.log.Errorf("Failed to save file: %v", err)
		s.respondError(w, http.StatusInternalServerError, "Failed to save uploaded file")
		return
	}
	out.Close()

	s.log.Infof("Decoding uploaded file: %s", header.Filename)
	report, err := s.service.DecodeFile(ctx, tempFile)
	if err != nil {
		s.log.Errorf("Failed to decode file: %v", err)
		s.respondError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to decode file: %v", err))
		return
	}

	s.respondJSON(w, http.StatusOK, DecodeResponse{
		Timecode:   report.Timecode.String(),
		DropFrame:  report.DropFrame,
		Valid:      report.Valid,
		Method:     string(report.Method),
		SampleRate: report.SampleRate,
		DurationMs: report.DurationMs,
		BandRatio:  report.Carrier.BandRatio,
		RecordID:   report.RecordID,
	})
}

// handleListRecords handles GET /api/records
func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	records, err := s.service.ListRecords()
	if err != nil {
		s.log.Errorf("Failed to list records: %v", err)
		s.respondError(w, http.StatusInternalServerError, "Failed to retrieve records")
		return
	}

	dtos := make([]RecordDTO, len(records))
	for i := range records {
		dtos[i] = recordToDTO(&records[i])
	}

	s.respondJSON(w, http.StatusOK, ListRecordsResponse{
		Records: dtos,
		Count:   len(dtos),
	})
}

// handleGetRecord handles GET /api/records/{id}
func (s *Server) handleGetRecord(w http.ResponseWriter, r *http.Request, id string) {
	record, err := s.service.GetRecord(id)
	if err != nil {
		s.log.Warnf("Record not found: %s", id)
		s.respondError(w, http.StatusNotFound, fmt.Sprintf("Record %s not found", id))
		return
	}

	s.respondJSON(w, http.StatusOK, recordToDTO(record))
}

// handleDeleteRecord handles DELETE /api/records/{id}
func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request, id string) {
	if err := s.service.DeleteRecord(id); err != nil {
		s.log.Warnf("Failed to delete record %s: %v", id, err)
		s.respondError(w, http.StatusNotFound, fmt.Sprintf("Record %s not found", id))
		return
	}

	s.log.Infof("Deleted record %s", id)
	s.respondJSON(w, http.StatusOK, DeleteRecordResponse{
		Message: "Record deleted successfully",
		ID:      id,
	})
}

// handleRecords routes requests to /api/records
func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	s.handleListRecords(w, r)
}

// handleRecord routes requests to /api/records/{id}
func (s *Server) handleRecord(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Path[len("/api/records/"):]
	if id == "" {
		s.respondError(w, http.StatusBadRequest, "Record ID required")
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.handleGetRecord(w, r, id)
	case http.MethodDelete:
		s.handleDeleteRecord(w, r, id)
	default:
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}
