package handler

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"paytrack/internal/app/ds"
	"paytrack/internal/app/dto"
	"paytrack/internal/app/storage"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ============ ДОМЕН ВЛОЖЕНИЯ ============

// ownerFromRequest читает owner_type и owner_id из формы или query
func ownerFromRequest(c *gin.Context, value func(string) string) (ds.AttachmentOwner, uint, bool) {
	owner := ds.AttachmentOwner(value("owner_type"))
	if !owner.Valid() {
		errorResponse(c, http.StatusBadRequest, "Неверный owner_type")
		return "", 0, false
	}
	ownerID, err := strconv.ParseUint(value("owner_id"), 10, 32)
	if err != nil || ownerID == 0 {
		errorResponse(c, http.StatusBadRequest, "Неверный owner_id")
		return "", 0, false
	}
	return owner, uint(ownerID), true
}

// UploadAttachment загружает файл в MinIO
// @Summary Загрузка вложения
// @Tags Attachments
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param owner_type formData string true "contract, payable, payment_record, supplier"
// @Param owner_id formData int true "ID владельца"
// @Param file formData file true "Файл"
// @Success 201 {object} dto.Envelope{data=dto.AttachmentResponse}
// @Failure 400 {object} dto.Envelope
// @Failure 404 {object} dto.Envelope
// @Failure 413 {object} dto.Envelope
// @Failure 503 {object} dto.Envelope
// @Router /api/attachments [post]
func (h *APIHandler) UploadAttachment(c *gin.Context) {
	owner, ownerID, ok := ownerFromRequest(c, c.PostForm)
	if !ok {
		return
	}

	// Получаем файл из запроса
	file, err := c.FormFile("file")
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "Файл не найден в запросе")
		return
	}
	maxBytes := int64(h.Config.MaxUploadMB) << 20
	if maxBytes > 0 && file.Size > maxBytes {
		errorResponse(c, http.StatusRequestEntityTooLarge, fmt.Sprintf("Файл больше %d МБ", h.Config.MaxUploadMB))
		return
	}

	if h.MinIOClient == nil {
		errorResponse(c, http.StatusServiceUnavailable, "Хранилище файлов не настроено")
		return
	}

	if err := h.Repository.OwnerExists(owner, ownerID); err != nil {
		handleError(c, err, "Ошибка проверки владельца вложения")
		return
	}

	// Читаем содержимое файла
	openedFile, err := file.Open()
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "Ошибка чтения файла")
		return
	}
	defer openedFile.Close()

	fileData, err := io.ReadAll(openedFile)
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "Ошибка чтения файла")
		return
	}

	key := storage.ObjectKey(string(owner), ownerID, file.Filename)
	uploaded, err := h.MinIOClient.UploadFile(c.Request.Context(), key, fileData)
	if err != nil {
		logrus.Error("Error uploading to MinIO: ", err)
		errorResponse(c, http.StatusInternalServerError, "Ошибка загрузки файла")
		return
	}

	attachment := ds.Attachment{
		OwnerType:   owner,
		OwnerID:     ownerID,
		FileName:    file.Filename,
		ObjectKey:   uploaded.ObjectKey,
		ContentType: uploaded.ContentType,
		Size:        uploaded.Size,
		UploadedBy:  currentUserID(c),
	}
	if err := h.Repository.CreateAttachment(&attachment); err != nil {
		// объект без записи в БД никому не виден, убираем его
		if delErr := h.MinIOClient.DeleteFile(c.Request.Context(), uploaded.ObjectKey); delErr != nil {
			logrus.Warnf("Failed to delete orphan object %s: %v", uploaded.ObjectKey, delErr)
		}
		handleError(c, err, "Ошибка сохранения вложения")
		return
	}

	successResponse(c, http.StatusCreated, "Файл загружен", attachmentResponse(attachment))
}

// GetAttachments список вложений владельца
// @Summary Вложения владельца
// @Tags Attachments
// @Produce json
// @Security BearerAuth
// @Param owner_type query string true "contract, payable, payment_record, supplier"
// @Param owner_id query int true "ID владельца"
// @Success 200 {object} dto.Envelope{data=[]dto.AttachmentResponse}
// @Failure 400 {object} dto.Envelope
// @Router /api/attachments [get]
func (h *APIHandler) GetAttachments(c *gin.Context) {
	owner, ownerID, ok := ownerFromRequest(c, c.Query)
	if !ok {
		return
	}

	attachments, err := h.Repository.ListAttachments(owner, ownerID)
	if err != nil {
		handleError(c, err, "Ошибка получения вложений")
		return
	}

	items := make([]dto.AttachmentResponse, 0, len(attachments))
	for _, a := range attachments {
		items = append(items, attachmentResponse(a))
	}
	successResponse(c, http.StatusOK, "", items)
}

// GetAttachmentURL временная ссылка на скачивание
// @Summary Ссылка на вложение
// @Tags Attachments
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID вложения"
// @Success 200 {object} dto.Envelope
// @Failure 404 {object} dto.Envelope
// @Failure 503 {object} dto.Envelope
// @Router /api/attachments/{id}/url [get]
func (h *APIHandler) GetAttachmentURL(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if h.MinIOClient == nil {
		errorResponse(c, http.StatusServiceUnavailable, "Хранилище файлов не настроено")
		return
	}

	attachment, err := h.Repository.GetAttachment(id)
	if err != nil {
		handleError(c, err, "Ошибка получения вложения")
		return
	}

	link, err := h.MinIOClient.GetFileURL(c.Request.Context(), attachment.ObjectKey, h.Config.MinIO.URLTTL)
	if err != nil {
		logrus.Error("Error presigning MinIO url: ", err)
		errorResponse(c, http.StatusInternalServerError, "Ошибка получения ссылки")
		return
	}

	successResponse(c, http.StatusOK, "", gin.H{
		"url":        link,
		"expires_in": int(h.Config.MinIO.URLTTL.Seconds()),
	})
}

// DownloadAttachment отдает файл через API, если клиенту недоступен MinIO напрямую
// @Summary Скачивание вложения
// @Tags Attachments
// @Produce octet-stream
// @Security BearerAuth
// @Param id path int true "ID вложения"
// @Success 200 {file} file
// @Failure 404 {object} dto.Envelope
// @Failure 503 {object} dto.Envelope
// @Router /api/attachments/{id}/download [get]
func (h *APIHandler) DownloadAttachment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if h.MinIOClient == nil {
		errorResponse(c, http.StatusServiceUnavailable, "Хранилище файлов не настроено")
		return
	}

	attachment, err := h.Repository.GetAttachment(id)
	if err != nil {
		handleError(c, err, "Ошибка получения вложения")
		return
	}

	ctx := c.Request.Context()
	exists, err := h.MinIOClient.FileExists(ctx, attachment.ObjectKey)
	if err != nil {
		logrus.Error("Error checking MinIO object: ", err)
		errorResponse(c, http.StatusInternalServerError, "Ошибка получения файла")
		return
	}
	if !exists {
		logrus.Warnf("Attachment %d points to missing object %s", attachment.ID, attachment.ObjectKey)
		errorResponse(c, http.StatusNotFound, "Файл не найден в хранилище")
		return
	}

	data, err := h.MinIOClient.DownloadFile(ctx, attachment.ObjectKey)
	if err != nil {
		logrus.Error("Error downloading from MinIO: ", err)
		errorResponse(c, http.StatusInternalServerError, "Ошибка получения файла")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename*=UTF-8''%s", url.PathEscape(attachment.FileName)))
	c.Data(http.StatusOK, attachment.ContentType, data)
}

// DeleteAttachment удаляет вложение
// @Summary Удаление вложения
// @Tags Attachments
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID вложения"
// @Success 200 {object} dto.Envelope
// @Failure 404 {object} dto.Envelope
// @Router /api/attachments/{id} [delete]
func (h *APIHandler) DeleteAttachment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	attachment, err := h.Repository.DeleteAttachment(id)
	if err != nil {
		handleError(c, err, "Ошибка удаления вложения")
		return
	}
	h.removeObjects(c, []string{attachment.ObjectKey})

	successResponse(c, http.StatusOK, "Вложение удалено", nil)
}

// removeObjects удаляет файлы из MinIO после удаления записей; ошибки только логируются
func (h *APIHandler) removeObjects(c *gin.Context, keys []string) {
	if h.MinIOClient == nil {
		return
	}
	for _, key := range keys {
		if err := h.MinIOClient.DeleteFile(c.Request.Context(), key); err != nil {
			logrus.Warnf("Failed to delete object %s: %v", key, err)
		}
	}
}
