package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"go_toon_vocab/internal/model"
	"go_toon_vocab/internal/service"
	"go_toon_vocab/internal/webutil"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type GroupHandler struct {
	service service.GroupService
	logger  *slog.Logger
}

func NewGroupHandler(s service.GroupService, logger *slog.Logger) *GroupHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &GroupHandler{
		service: s,
		logger:  logger,
	}
}

// Routes は /groups 以下のルートを登録します
func (h *GroupHandler) Routes(r chi.Router) {
	r.Get("/", h.ListGroups)
	r.Post("/", h.CreateGroup)
	r.Post("/import", h.ImportGroup)
	r.Route("/{group_id}", func(r chi.Router) {
		r.Get("/", h.GetGroup)
		r.Put("/", h.UpdateGroup)
		r.Delete("/", h.DeleteGroup)
		r.Post("/images", h.AddImage)
		r.Delete("/images/{index}", h.RemoveImage)
	})
}

// ListGroups はグループ一覧を作成日時の新しい順に返します
func (h *GroupHandler) ListGroups(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "ListGroups"))

	groups, err := h.service.ListGroups(r.Context())
	if err != nil {
		h.fail(w, logger, err, "Failed to fetch groups")
		return
	}
	if groups == nil {
		groups = []*model.Group{}
	}
	logger.Debug("Groups listed", slog.Int("count", len(groups)))
	webutil.RespondWithJSON(w, http.StatusOK, groups, logger)
}

func (h *GroupHandler) GetGroup(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "group_id")
	logger := h.logger.With(slog.String("handler", "GetGroup"), slog.String("group_id", groupID))

	group, err := h.service.GetGroup(r.Context(), groupID)
	if err != nil {
		h.fail(w, logger, err, "Failed to fetch group")
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, group, logger)
}

func (h *GroupHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "CreateGroup"))

	var req model.GroupInput
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		logger.Warn("Failed to decode request body", slog.String("error", err.Error()))
		h.fail(w, logger, err, "Invalid request body")
		return
	}

	group, err := h.service.CreateGroup(r.Context(), &req)
	if err != nil {
		h.fail(w, logger, err, "Failed to create group")
		return
	}

	logger.Info("Group created successfully", slog.String("group_id", group.ID))
	webutil.RespondWithJSON(w, http.StatusCreated, group, logger)
}

func (h *GroupHandler) UpdateGroup(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "group_id")
	logger := h.logger.With(slog.String("handler", "UpdateGroup"), slog.String("group_id", groupID))

	var req model.GroupInput
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		logger.Warn("Failed to decode request body", slog.String("error", err.Error()))
		h.fail(w, logger, err, "Invalid request body")
		return
	}

	group, err := h.service.UpdateGroup(r.Context(), groupID, &req)
	if err != nil {
		h.fail(w, logger, err, "Failed to update group")
		return
	}

	logger.Info("Group updated successfully")
	webutil.RespondWithJSON(w, http.StatusOK, group, logger)
}

func (h *GroupHandler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "group_id")
	logger := h.logger.With(slog.String("handler", "DeleteGroup"), slog.String("group_id", groupID))

	if err := h.service.DeleteGroup(r.Context(), groupID); err != nil {
		h.fail(w, logger, err, "Failed to delete group")
		return
	}

	logger.Info("Group deleted successfully")
	webutil.RespondWithJSON(w, http.StatusOK, model.DeleteGroupResponse{Success: true}, logger)
}

// AddImage は {image: dataURI} を保存して imageUrls の末尾に追加します
func (h *GroupHandler) AddImage(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "group_id")
	logger := h.logger.With(slog.String("handler", "AddImage"), slog.String("group_id", groupID))

	var req model.AddImageRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		logger.Warn("Failed to decode request body", slog.String("error", err.Error()))
		h.fail(w, logger, err, "Invalid image data")
		return
	}
	if err := webutil.Validator.Struct(req); err != nil {
		h.validationFailed(w, logger, err, "Invalid image data")
		return
	}

	group, err := h.service.AddImage(r.Context(), groupID, req.Image)
	if err != nil {
		h.fail(w, logger, err, "Failed to add image")
		return
	}

	logger.Info("Image added successfully", slog.Int("images", len(group.ImageURLs)))
	webutil.RespondWithJSON(w, http.StatusCreated, group, logger)
}

func (h *GroupHandler) RemoveImage(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "group_id")
	indexStr := chi.URLParam(r, "index")
	logger := h.logger.With(slog.String("handler", "RemoveImage"), slog.String("group_id", groupID), slog.String("index", indexStr))

	index, err := strconv.Atoi(indexStr)
	if err != nil {
		logger.Warn("Invalid image index in URL", slog.String("error", err.Error()))
		appErr := model.NewAppError("INVALID_IMAGE_INDEX", "Invalid image index", "index", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return
	}

	group, err := h.service.RemoveImage(r.Context(), groupID, index)
	if err != nil {
		h.fail(w, logger, err, "Failed to delete image")
		return
	}

	logger.Info("Image removed successfully")
	webutil.RespondWithJSON(w, http.StatusOK, group, logger)
}

// ImportGroup は {title, words} から10語に揃えたグループを作成します
func (h *GroupHandler) ImportGroup(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "ImportGroup"))
	const formatMsg = "Invalid format. Expected: { title: string, words: [...] }"

	var req model.ImportGroupRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		logger.Warn("Failed to decode request body", slog.String("error", err.Error()))
		h.fail(w, logger, err, formatMsg)
		return
	}
	if err := webutil.Validator.Struct(req); err != nil {
		h.validationFailed(w, logger, err, formatMsg)
		return
	}

	group, err := h.service.ImportGroup(r.Context(), &req)
	if err != nil {
		h.fail(w, logger, err, "Failed to import group")
		return
	}

	logger.Info("Group imported successfully", slog.String("group_id", group.ID))
	webutil.RespondWithJSON(w, http.StatusCreated, group, logger)
}

// fail は AppError でないエラーに message を付けてレスポンスします。
// ステータスはラップされた原因から決まる。
func (h *GroupHandler) fail(w http.ResponseWriter, logger *slog.Logger, err error, message string) {
	var appErr *model.AppError
	if errors.As(err, &appErr) {
		if errors.Is(err, model.ErrNotFound) {
			logger.Info("Resource not found", slog.Any("error", err))
		} else {
			logger.Warn("Request rejected", slog.Any("error", err))
		}
		webutil.HandleError(w, logger, err)
		return
	}
	if webutil.MapErrorToStatusCode(err) >= http.StatusInternalServerError {
		logger.Error(message, slog.Any("error", err))
	} else {
		logger.Warn(message, slog.Any("error", err))
	}
	webutil.HandleError(w, logger, model.NewAppError("", message, "", err))
}

func (h *GroupHandler) validationFailed(w http.ResponseWriter, logger *slog.Logger, err error, message string) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		field, translated := webutil.TranslateFirst(validationErrors)
		logger.Warn("Validation failed", slog.String("field", field), slog.String("reason", translated))
		webutil.HandleError(w, logger, model.NewAppError("VALIDATION_ERROR", message, field, model.ErrInvalidInput))
		return
	}
	// バリデーションライブラリ自体のエラーなど、予期せぬエラー
	logger.Error("Unexpected error during validation", slog.Any("error", err))
	webutil.HandleError(w, logger, err)
}
