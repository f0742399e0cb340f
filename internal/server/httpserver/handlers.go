package httpserver

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/dmitrijs2005/passvault/internal/generator"
	"github.com/gin-gonic/gin"
)

const (
	msgUnauthorized     = "Unauthorized"
	msgInvalidBody      = "Invalid request body"
	msgTitleAndPassword = "Title and password are required"
	msgNotFound         = "Item not found or unauthorized"
	msgInternal         = "Internal server error"
	msgInvalidEmailPass = "A valid email and a password of 8 to 72 characters are required"
	msgEmailTaken       = "User already exists"
	msgBadCredentials   = "Invalid credentials"
	msgBadLength        = "Length must be between 8 and 64"
)

// internalError logs err and answers with the generic 500 body.
func (s *HTTPServer) internalError(c *gin.Context, op string, err error) {
	s.logger.Error(c.Request.Context(), op, "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternal})
}

func (s *HTTPServer) authCheck(c *gin.Context) {
	id, ok := s.auth.ResolveIdentity(c.Request)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"authenticated": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"authenticated": true,
		"user":          userResponse{UserID: id.UserID, Email: id.Email},
	})
}

func (s *HTTPServer) register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidEmailPass})
		return
	}

	user, err := s.users.Register(c.Request.Context(), req.Email, req.Password)
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, gin.H{"message": "User created successfully", "userId": user.ID})
	case errors.Is(err, common.ErrorValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidEmailPass})
	case errors.Is(err, common.ErrorAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": msgEmailTaken})
	default:
		s.internalError(c, "register failed", err)
	}
}

func (s *HTTPServer) login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidBody})
		return
	}

	token, id, err := s.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": msgBadCredentials})
			return
		}
		s.internalError(c, "login failed", err)
		return
	}

	s.setSessionCookie(c, token, int(s.cookie.MaxAge.Seconds()))
	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"user":    userResponse{UserID: id.UserID, Email: id.Email},
	})
}

func (s *HTTPServer) logout(c *gin.Context) {
	s.setSessionCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func (s *HTTPServer) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(common.SessionCookieName, value, maxAge, "/", "", s.cookie.Secure, true)
}

func (s *HTTPServer) listItems(c *gin.Context) {
	items, err := s.vault.List(c.Request.Context(), identity(c), c.Query("q"))
	if err != nil {
		s.internalError(c, "list items failed", err)
		return
	}

	out := make([]itemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, toItemResponse(it))
	}
	c.JSON(http.StatusOK, gin.H{"items": out})
}

func (s *HTTPServer) getItem(c *gin.Context) {
	item, err := s.vault.Get(c.Request.Context(), identity(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": msgNotFound})
			return
		}
		s.internalError(c, "get item failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": toItemResponse(item)})
}

func (s *HTTPServer) createItem(c *gin.Context) {
	var req itemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidBody})
		return
	}

	id, err := s.vault.Create(c.Request.Context(), identity(c), req.fields())
	if err != nil {
		if errors.Is(err, common.ErrorValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": msgTitleAndPassword})
			return
		}
		s.internalError(c, "create item failed", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Item created successfully", "itemId": id})
}

func (s *HTTPServer) updateItem(c *gin.Context) {
	var req itemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidBody})
		return
	}

	err := s.vault.Update(c.Request.Context(), identity(c), c.Param("id"), req.fields())
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": "Item updated successfully"})
	case errors.Is(err, common.ErrorValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": msgTitleAndPassword})
	case errors.Is(err, common.ErrorNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": msgNotFound})
	default:
		s.internalError(c, "update item failed", err)
	}
}

func (s *HTTPServer) deleteItem(c *gin.Context) {
	err := s.vault.Delete(c.Request.Context(), identity(c), c.Param("id"))
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": "Item deleted successfully"})
	case errors.Is(err, common.ErrorNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": msgNotFound})
	default:
		s.internalError(c, "delete item failed", err)
	}
}

func (s *HTTPServer) generatePassword(c *gin.Context) {
	var q generatorQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidBody})
		return
	}

	opts := generator.DefaultOptions()
	if q.Length != nil {
		opts.Length = *q.Length
	}
	if q.Uppercase != nil {
		opts.Uppercase = *q.Uppercase
	}
	if q.Numbers != nil {
		opts.Digits = *q.Numbers
	}
	if q.Symbols != nil {
		opts.Symbols = *q.Symbols
	}

	password, err := generator.Generate(opts)
	if err != nil {
		if errors.Is(err, generator.ErrLength) {
			c.JSON(http.StatusBadRequest, gin.H{"error": msgBadLength})
			return
		}
		s.internalError(c, "generate password failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"password": password})
}
