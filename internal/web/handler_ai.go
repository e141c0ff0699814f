package web

import (
	"net/http"
	"strings"

	"github.com/vbonduro/kitchenflow/internal/backend"
	"github.com/vbonduro/kitchenflow/internal/domain"
)

const maxScanImages = 5

// allowedImageTypes is the set of MIME types accepted for fridge photos.
// net/http.DetectContentType handles JPEG, PNG, and GIF via magic-byte
// sniffing. WebP is detected separately because the stdlib does not include
// a WebP signature.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// isWebP reports whether data is a WebP image (RIFF container with "WEBP" at
// offset 8).
func isWebP(data []byte) bool {
	return len(data) >= 12 &&
		string(data[0:4]) == "RIFF" &&
		string(data[8:12]) == "WEBP"
}

// allowedImageMIME returns the detected MIME type and true if the data is an
// accepted image format, or ("", false) otherwise.
func allowedImageMIME(data []byte) (string, bool) {
	if isWebP(data) {
		return "image/webp", true
	}
	mime := http.DetectContentType(data)
	if allowedImageTypes[mime] {
		return mime, true
	}
	return "", false
}

func (s *Server) requireAssistant(w http.ResponseWriter) bool {
	if s.assistant == nil {
		writeError(w, http.StatusServiceUnavailable, codeAIUnavailable, "no ai model configured", s.logger)
		return false
	}
	return true
}

func (s *Server) handleCravingFromText(w http.ResponseWriter, r *http.Request, deviceID string) {
	var body struct {
		Text string `json:"text"`
	}
	if err := decodeBody(w, r, &body); err != nil || strings.TrimSpace(body.Text) == "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, "text required", s.logger)
		return
	}
	if !s.requireAssistant(w) {
		return
	}

	name, err := s.assistant.IdentifyCravingFromText(r.Context(), strings.TrimSpace(body.Text))
	if err != nil {
		writeError(w, http.StatusBadGateway, codeAIFailed, "failed to identify craving", s.logger)
		s.logger.Error("identify craving failed", "device_id", deviceID, "error", err)
		return
	}
	writeJSON(w, http.StatusOK, backend.FoodName{FoodName: name}, s.logger)
}

func (s *Server) handleCravingFromLink(w http.ResponseWriter, r *http.Request, deviceID string) {
	var body struct {
		URL string `json:"url"`
	}
	if err := decodeBody(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "url required", s.logger)
		return
	}
	link := strings.TrimSpace(body.URL)
	if !strings.HasPrefix(link, "http://") && !strings.HasPrefix(link, "https://") {
		writeError(w, http.StatusBadRequest, codeBadRequest, "url must be http or https", s.logger)
		return
	}
	if !s.requireAssistant(w) {
		return
	}

	name, err := s.assistant.IdentifyCravingFromLink(r.Context(), link)
	if err != nil {
		writeError(w, http.StatusBadGateway, codeAIFailed, "failed to identify craving", s.logger)
		s.logger.Error("identify craving from link failed", "device_id", deviceID, "url", link, "error", err)
		return
	}
	writeJSON(w, http.StatusOK, backend.FoodName{FoodName: name}, s.logger)
}

func (s *Server) handleRecipeDetails(w http.ResponseWriter, r *http.Request, deviceID string) {
	var body struct {
		FoodName string `json:"foodName"`
	}
	if err := decodeBody(w, r, &body); err != nil || strings.TrimSpace(body.FoodName) == "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, "foodName required", s.logger)
		return
	}
	if !s.requireAssistant(w) {
		return
	}

	recipe, err := s.assistant.RecipeDetails(r.Context(), strings.TrimSpace(body.FoodName))
	if err != nil {
		writeError(w, http.StatusBadGateway, codeAIFailed, "failed to generate recipe", s.logger)
		s.logger.Error("recipe details failed", "device_id", deviceID, "error", err)
		return
	}
	writeJSON(w, http.StatusOK, recipe, s.logger)
}

func (s *Server) handleScanFridge(w http.ResponseWriter, r *http.Request, deviceID string) {
	var body struct {
		Images []domain.Image `json:"images"`
	}
	if err := decodeBody(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid images body", s.logger)
		return
	}
	if len(body.Images) == 0 || len(body.Images) > maxScanImages {
		writeError(w, http.StatusBadRequest, codeBadRequest, "between 1 and 5 images required", s.logger)
		return
	}
	for i := range body.Images {
		mime, ok := allowedImageMIME(body.Images[i].Data)
		if !ok {
			writeError(w, http.StatusBadRequest, codeBadRequest, "unsupported image format", s.logger)
			return
		}
		body.Images[i].MimeType = mime
	}
	if !s.requireAssistant(w) {
		return
	}

	s.logger.Info("scan fridge started", "device_id", deviceID, "images", len(body.Images), "bytes", imageBytes(body.Images))
	snap, err := s.assistant.ScanFridge(r.Context(), body.Images)
	if err != nil {
		writeError(w, http.StatusBadGateway, codeAIFailed, "failed to scan fridge", s.logger)
		s.logger.Error("scan fridge failed", "device_id", deviceID, "error", err)
		return
	}
	writeJSON(w, http.StatusOK, snap, s.logger)
}

func imageBytes(images []domain.Image) int {
	n := 0
	for _, img := range images {
		n += len(img.Data)
	}
	return n
}
