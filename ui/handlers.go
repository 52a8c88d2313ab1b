package ui

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"clinicsetup/app"
	"clinicsetup/domain/core"
	"clinicsetup/internal/domains"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleListDomains(c *gin.Context) {
	type domainInfo struct {
		Name        string   `json:"name"`
		Collections []string `json:"collections"`
	}
	names := domains.Names()
	out := make([]domainInfo, 0, len(names))
	for _, name := range names {
		d, _ := domains.Lookup(name)
		out = append(out, domainInfo{Name: name, Collections: d.Collections()})
	}
	c.JSON(http.StatusOK, gin.H{"domains": out, "collections": domains.CollectionNames()})
}

func (s *Server) handleCreateSession(c *gin.Context) {
	c.JSON(http.StatusCreated, s.sessions.Create())
}

func (s *Server) handleGetSession(c *gin.Context) {
	id, err := sessionParam(c)
	if err != nil {
		s.respondError(c, err)
		return
	}
	snap, err := s.sessions.Snapshot(id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (s *Server) handleDeleteSession(c *gin.Context) {
	id, err := sessionParam(c)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if err := s.sessions.Delete(id); err != nil {
		s.respondError(c, err)
		return
	}
	s.imports.Forget(id)
	c.Status(http.StatusNoContent)
}

func (s *Server) handleSetStep(c *gin.Context) {
	id, err := sessionParam(c)
	if err != nil {
		s.respondError(c, err)
		return
	}
	var body struct {
		Step string `json:"step"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		s.respondError(c, fmt.Errorf("%w: %v", core.ErrInvalidInput, err))
		return
	}
	if err := s.sessions.SetStep(id, body.Step); err != nil {
		s.respondError(c, err)
		return
	}
	s.handleGetSession(c)
}

func (s *Server) handleCompletePreSetup(c *gin.Context) {
	id, err := sessionParam(c)
	if err != nil {
		s.respondError(c, err)
		return
	}
	var body map[string][]any
	if err := c.ShouldBindJSON(&body); err != nil {
		s.respondError(c, fmt.Errorf("%w: %v", core.ErrInvalidInput, err))
		return
	}
	if err := s.sessions.CompletePreSetup(id, body); err != nil {
		s.respondError(c, err)
		return
	}
	s.handleGetSession(c)
}

func (s *Server) handleGetCollection(c *gin.Context) {
	id, err := sessionParam(c)
	if err != nil {
		s.respondError(c, err)
		return
	}
	records, err := s.sessions.Collection(id, c.Param("domain"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

func (s *Server) handleReplaceCollection(c *gin.Context) {
	id, err := sessionParam(c)
	if err != nil {
		s.respondError(c, err)
		return
	}
	var raw []any
	if err := c.ShouldBindJSON(&raw); err != nil {
		s.respondError(c, fmt.Errorf("%w: body must be a JSON array: %v", core.ErrInvalidInput, err))
		return
	}
	records, err := s.sessions.ReplaceCollection(id, c.Param("domain"), raw)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

func (s *Server) handleImport(c *gin.Context) {
	id, err := sessionParam(c)
	if err != nil {
		s.respondError(c, err)
		return
	}
	filename, data, err := s.readUpload(c)
	if err != nil {
		s.respondError(c, err)
		return
	}

	result, err := s.imports.Import(c.Request.Context(), app.ImportRequest{
		SessionID: id,
		Domain:    c.Param("domain"),
		Filename:  filename,
		Data:      data,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleImportStatus(c *gin.Context) {
	id, err := sessionParam(c)
	if err != nil {
		s.respondError(c, err)
		return
	}
	status, err := s.imports.Status(id, c.Param("domain"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

func (s *Server) handlePreview(c *gin.Context) {
	filename, data, err := s.readUpload(c)
	if err != nil {
		s.respondError(c, err)
		return
	}
	preview, err := s.imports.Preview(c.Param("domain"), filename, data)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, preview)
}

// multipartOverhead allows for boundaries and part headers around the file.
const multipartOverhead = 64 << 10

func sessionParam(c *gin.Context) (string, error) {
	id, err := core.ParseID("session", c.Param("id"))
	return id.String(), err
}

// readUpload returns the multipart "file" field. The request body is capped
// at the import service's upload limit.
func (s *Server) readUpload(c *gin.Context) (string, []byte, error) {
	limit := s.imports.MaxUploadBytes()
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+multipartOverhead)

	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return "", nil, fmt.Errorf("%w: upload exceeds the %d byte limit", core.ErrInvalidInput, limit)
		}
		return "", nil, fmt.Errorf("%w: missing multipart field \"file\"", core.ErrInvalidInput)
	}
	if header.Size > limit {
		return "", nil, fmt.Errorf("%w: upload of %d bytes exceeds the %d byte limit", core.ErrInvalidInput, header.Size, limit)
	}
	f, err := header.Open()
	if err != nil {
		return "", nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return "", nil, fmt.Errorf("failed to read upload: %w", err)
	}
	return header.Filename, data, nil
}
