package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/arbiter/internal/policy"
)

// @Summary      Get Policy Document
// @Description  Return the localized dispute policy with anchors
// @Tags         policy
// @Produce      json
// @Param        lang  path      string  true  "Language (zh or en)"
// @Success      200  {object}  map[string]any
// @Router       /policy/{lang} [get]
func (s *Server) GetPolicyDocument(c *gin.Context) {
	lang := policy.Language(strings.ToLower(strings.TrimSpace(c.Param("lang"))))

	doc, err := s.policy.Document(lang)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"language": lang,
		"document": doc,
	}})
}
