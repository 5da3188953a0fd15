package handler

import (
	"errors"
	"net/http"
	"time"

	"paytrack/internal/app/config"
	"paytrack/internal/app/ds"
	"paytrack/internal/app/dto"
	"paytrack/internal/app/middleware"
	"paytrack/internal/app/redis"
	"paytrack/internal/app/repository"
	"paytrack/internal/app/role"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

const tokenIssuer = "paytrack"

type AuthHandler struct {
	Repository  *repository.Repository
	RedisClient *redis.Client
	Config      *config.Config
}

func NewAuthHandler(r *repository.Repository, redisClient *redis.Client, config *config.Config) *AuthHandler {
	return &AuthHandler{
		Repository:  r,
		RedisClient: redisClient,
		Config:      config,
	}
}

// issueToken подписывает JWT для пользователя
func (h *AuthHandler) issueToken(user *ds.User) (string, error) {
	now := time.Now()
	method := h.Config.JWT.SigningMethod
	if method == nil {
		method = jwt.SigningMethodHS256
	}

	token := jwt.NewWithClaims(method, ds.JWTClaims{
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: now.Add(h.Config.JWT.ExpiresIn).Unix(),
			IssuedAt:  now.Unix(),
			Issuer:    tokenIssuer,
		},
		UserID:   user.ID,
		UserUUID: user.UUID,
		Role:     role.Role(user.Role),
	})
	return token.SignedString([]byte(h.Config.JWT.Token))
}

func (h *AuthHandler) loginResponse(user *ds.User, token string) dto.LoginResponse {
	return dto.LoginResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: int(h.Config.JWT.ExpiresIn.Seconds()),
		User:      userResponse(user),
	}
}

// RegisterUser регистрация нового пользователя
// @Summary Регистрация пользователя
// @Description Первый зарегистрированный пользователь получает роль admin, остальные viewer
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Данные для регистрации"
// @Success 201 {object} dto.Envelope{data=dto.LoginResponse}
// @Failure 400 {object} dto.Envelope
// @Failure 409 {object} dto.Envelope
// @Router /api/auth/register [post]
func (h *AuthHandler) RegisterUser(ctx *gin.Context) {
	var request dto.RegisterRequest
	if !bindJSON(ctx, &request) {
		return
	}

	// Проверяем существует ли пользователь
	taken, err := h.Repository.LoginTaken(request.Login)
	if err != nil {
		handleError(ctx, err, "Ошибка регистрации пользователя")
		return
	}
	if taken {
		errorResponse(ctx, http.StatusConflict, "Пользователь с таким логином уже существует")
		return
	}

	// Хешируем пароль
	hash, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
	if err != nil {
		handleError(ctx, err, "Ошибка регистрации пользователя")
		return
	}

	userRole := role.Viewer
	count, err := h.Repository.CountUsers()
	if err != nil {
		handleError(ctx, err, "Ошибка регистрации пользователя")
		return
	}
	if count == 0 {
		userRole = role.Admin
	}

	user := &ds.User{
		UUID:         uuid.New(),
		Login:        request.Login,
		PasswordHash: string(hash),
		FullName:     request.FullName,
		Email:        request.Email,
		Role:         int(userRole),
	}
	if err := h.Repository.CreateUser(user); err != nil {
		handleError(ctx, err, "Ошибка регистрации пользователя")
		return
	}

	// Генерируем JWT токен сразу при регистрации
	token, err := h.issueToken(user)
	if err != nil {
		handleError(ctx, err, "Ошибка выдачи токена")
		return
	}

	logrus.WithFields(logrus.Fields{"user_id": user.ID, "role": userRole.String()}).Info("user registered")
	successResponse(ctx, http.StatusCreated, "Пользователь зарегистрирован", h.loginResponse(user, token))
}

// LoginUser аутентификация пользователя
// @Summary Вход в систему
// @Description Аутентификация пользователя с возвратом JWT токена
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Данные для входа"
// @Success 200 {object} dto.Envelope{data=dto.LoginResponse}
// @Failure 400 {object} dto.Envelope
// @Failure 401 {object} dto.Envelope
// @Router /api/auth/login [post]
func (h *AuthHandler) LoginUser(ctx *gin.Context) {
	var request dto.LoginRequest
	if !bindJSON(ctx, &request) {
		return
	}

	user, err := h.Repository.GetUserByLogin(request.Login)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		handleError(ctx, err, "Ошибка авторизации")
		return
	}
	if err != nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(request.Password)) != nil {
		errorResponse(ctx, http.StatusUnauthorized, "Неверный логин или пароль")
		return
	}

	token, err := h.issueToken(user)
	if err != nil {
		handleError(ctx, err, "Ошибка выдачи токена")
		return
	}

	successResponse(ctx, http.StatusOK, "Пользователь авторизован", h.loginResponse(user, token))
}

// LogoutUser выход пользователя из системы
// @Summary Выход из системы
// @Description Завершение сеанса пользователя с добавлением токена в blacklist
// @Tags Authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.Envelope
// @Failure 401 {object} dto.Envelope
// @Failure 503 {object} dto.Envelope
// @Router /api/auth/logout [post]
func (h *AuthHandler) LogoutUser(ctx *gin.Context) {
	tokenString := middleware.BearerToken(ctx)

	token, err := middleware.ParseJWT(tokenString, h.Config.JWT.Token)
	if err != nil {
		errorResponse(ctx, http.StatusUnauthorized, "Недействительный токен")
		return
	}
	claims, ok := token.Claims.(*ds.JWTClaims)
	if !ok {
		errorResponse(ctx, http.StatusUnauthorized, "Недействительный токен")
		return
	}

	// Вычисление TTL до истечения токена
	ttl := time.Until(time.Unix(claims.ExpiresAt, 0))
	if ttl <= 0 {
		successResponse(ctx, http.StatusOK, "Пользователь вышел из системы", nil)
		return
	}

	if h.RedisClient == nil {
		errorResponse(ctx, http.StatusServiceUnavailable, "Blacklist токенов недоступен")
		return
	}
	if err := h.RedisClient.WriteJWTToBlacklist(ctx.Request.Context(), tokenString, ttl); err != nil {
		handleError(ctx, err, "Ошибка выхода из системы")
		return
	}

	successResponse(ctx, http.StatusOK, "Пользователь вышел из системы", nil)
}

// GetUserProfile получение профиля пользователя
// @Summary Получение профиля пользователя
// @Description Возвращает информацию о текущем пользователе
// @Tags Authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.Envelope{data=dto.UserResponse}
// @Failure 404 {object} dto.Envelope
// @Router /api/auth/profile [get]
func (h *AuthHandler) GetUserProfile(ctx *gin.Context) {
	current, ok := middleware.GetUserFromContext(ctx)
	if !ok {
		errorResponse(ctx, http.StatusUnauthorized, "Пользователь не авторизован")
		return
	}

	user, err := h.Repository.GetUserByID(current.ID)
	if err != nil {
		handleError(ctx, err, "Ошибка получения профиля")
		return
	}

	successResponse(ctx, http.StatusOK, "", userResponse(user))
}

// UpdateProfile обновление профиля
// @Summary Обновление профиля
// @Description Пустые поля не изменяются
// @Tags Authentication
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateUserRequest true "Данные для обновления"
// @Success 200 {object} dto.Envelope{data=dto.UserResponse}
// @Failure 400 {object} dto.Envelope
// @Router /api/auth/profile [put]
func (h *AuthHandler) UpdateProfile(ctx *gin.Context) {
	current, ok := middleware.GetUserFromContext(ctx)
	if !ok {
		errorResponse(ctx, http.StatusUnauthorized, "Пользователь не авторизован")
		return
	}

	var req dto.UpdateUserRequest
	if !bindJSON(ctx, &req) {
		return
	}

	user, err := h.Repository.GetUserByID(current.ID)
	if err != nil {
		handleError(ctx, err, "Ошибка получения профиля")
		return
	}

	if req.FullName != "" {
		user.FullName = req.FullName
	}
	if req.Email != "" {
		user.Email = req.Email
	}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			handleError(ctx, err, "Ошибка обновления профиля")
			return
		}
		user.PasswordHash = string(hash)
	}

	if err := h.Repository.UpdateUser(user); err != nil {
		handleError(ctx, err, "Ошибка обновления профиля")
		return
	}

	successResponse(ctx, http.StatusOK, "Профиль обновлен", userResponse(user))
}

// UpdateUserRole смена роли пользователя
// @Summary Смена роли
// @Tags Authentication
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID пользователя"
// @Param request body dto.UpdateRoleRequest true "viewer, accountant или admin"
// @Success 200 {object} dto.Envelope{data=dto.UserResponse}
// @Failure 400 {object} dto.Envelope
// @Failure 404 {object} dto.Envelope
// @Router /api/auth/users/{id}/role [put]
func (h *AuthHandler) UpdateUserRole(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	var req dto.UpdateRoleRequest
	if !bindJSON(ctx, &req) {
		return
	}

	newRole, _ := role.Parse(req.Role)
	user, err := h.Repository.UpdateUserRole(id, int(newRole))
	if err != nil {
		handleError(ctx, err, "Ошибка смены роли")
		return
	}

	successResponse(ctx, http.StatusOK, "Роль изменена", userResponse(user))
}
