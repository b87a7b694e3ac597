package server

import (
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/ajibade-k/budgetwise/constants"
	"github.com/ajibade-k/budgetwise/internal/auth"
	"github.com/ajibade-k/budgetwise/internal/common"
	"github.com/ajibade-k/budgetwise/internal/core"
	"github.com/ajibade-k/budgetwise/internal/entity"
	"github.com/ajibade-k/budgetwise/internal/repository"
	"github.com/ajibade-k/budgetwise/internal/utils"
)

// handleUpload accepts the statement, creates the pending analysis row, and
// only then submits the pipeline job. The response does not wait for the
// pipeline; clients poll GET /api/analysis/{id} until the status leaves
// pending.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		common.WriteError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	if user.MonthlyIncome == nil {
		common.WriteError(w, http.StatusBadRequest, "Monthly income not set. Please set your income first.")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.uploads.MaxFileSize)
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			common.WriteError(w, http.StatusRequestEntityTooLarge, "File too large. Please upload a smaller statement.")
			return
		}
		common.WriteError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			s.logger.Warn("upload.file_close_failed", "err", cerr)
		}
	}()

	contentType := header.Header.Get("Content-Type")
	if _, ok := constants.AllowedMIMETypes[contentType]; !ok {
		common.WriteError(w, http.StatusBadRequest, "Invalid file type. Only PDF and Excel files are allowed.")
		return
	}

	fileName := utils.GenerateFileName(user.Email, header.Filename)
	filePath, err := s.saveUpload(file, fileName)
	if err != nil {
		s.logger.Error("upload.save_failed", "user_id", user.ID, "err", err)
		common.WriteError(w, http.StatusInternalServerError, "Failed to store uploaded file")
		return
	}

	analysis, err := s.analyses.Create(r.Context(), repository.CreateAnalysisRequest{
		UserID:           user.ID,
		FileName:         fileName,
		OriginalFileName: header.Filename,
		MonthlyIncome:    *user.MonthlyIncome,
	})
	if err != nil {
		s.logger.Error("upload.create_analysis_failed", "user_id", user.ID, "err", err)
		if rerr := os.Remove(filePath); rerr != nil {
			s.logger.Warn("upload.orphan_cleanup_failed", "path", filePath, "err", rerr)
		}
		common.WriteError(w, http.StatusInternalServerError, "Failed to create analysis")
		return
	}

	// The pending row is committed; polling clients can already see it.
	if err := s.queue.Enqueue(r.Context(), core.AnalysisJob{
		AnalysisID:    analysis.ID,
		FilePath:      filePath,
		FileName:      fileName,
		MonthlyIncome: analysis.MonthlyIncome,
		SubmittedAt:   time.Now(),
	}); err != nil {
		// No worker will ever pick this job up, so the row and the file are
		// ours to fail and clean.
		s.logger.Error("upload.enqueue_failed", "analysis_id", analysis.ID, "err", err)
		if ferr := s.analyses.MarkFailed(r.Context(), analysis.ID, core.AnalysisFailedMessage); ferr != nil {
			s.logger.Error("upload.mark_failed_after_enqueue", "analysis_id", analysis.ID, "err", ferr)
		}
		if rerr := os.Remove(filePath); rerr != nil {
			s.logger.Warn("upload.orphan_cleanup_failed", "path", filePath, "err", rerr)
		}
		common.WriteError(w, http.StatusServiceUnavailable, "Server is shutting down. Please try again.")
		return
	}

	common.WriteJSON(w, http.StatusOK, map[string]any{
		"message":    "File uploaded successfully",
		"analysisId": analysis.ID,
	})
}

func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		common.WriteError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		common.WriteError(w, http.StatusBadRequest, "Invalid analysis id")
		return
	}

	analysis, err := s.analyses.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			common.WriteError(w, http.StatusNotFound, "Analysis not found")
			return
		}
		s.logger.Error("get analysis failed", "analysis_id", id, "err", err)
		common.WriteError(w, http.StatusInternalServerError, "Failed to load analysis")
		return
	}

	if analysis.UserID != user.ID {
		common.WriteError(w, http.StatusForbidden, "Access denied")
		return
	}

	common.WriteJSON(w, http.StatusOK, analysis)
}

func (s *Server) handleListAnalyses(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		common.WriteError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	analyses, err := s.analyses.ListByUser(r.Context(), user.ID)
	if err != nil {
		s.logger.Error("list analyses failed", "user_id", user.ID, "err", err)
		common.WriteError(w, http.StatusInternalServerError, "Failed to load analyses")
		return
	}
	if analyses == nil {
		// never encode null for an empty list
		analyses = []*entity.BudgetAnalysis{}
	}
	common.WriteJSON(w, http.StatusOK, analyses)
}

func (s *Server) saveUpload(src io.Reader, fileName string) (string, error) {
	if err := utils.EnsureDir(s.uploads.Directory); err != nil {
		return "", err
	}
	path := filepath.Join(s.uploads.Directory, fileName)
	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		_ = os.Remove(path)
		return "", err
	}
	if err := dst.Close(); err != nil {
		return "", err
	}
	return path, nil
}
