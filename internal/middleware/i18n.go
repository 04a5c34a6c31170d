// internal/middleware/i18n.go
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Dr-Xcristy/GeneVault/internal/i18n"
)

func I18nMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Get language from header
		lang := c.GetHeader("Accept-Language")

		// Parse language preference; drop q-values such as "zh-TW,zh;q=0.9,en;q=0.8"
		// and normalize onto the locale catalogs actually loaded.
		if lang != "" {
			langs := strings.Split(lang, ",")
			if len(langs) > 0 {
				firstLang := strings.TrimSpace(strings.Split(langs[0], ";")[0])
				switch firstLang {
				case "zh-TW", "zh-Hant", "zh_TW", "zh":
					lang = "zh_TW"
				default:
					lang = "en"
				}
			}
		} else {
			lang = "en"
		}

		supported := false
		for _, code := range i18n.GetSupportedLanguages() {
			if code == lang {
				supported = true
				break
			}
		}
		if !supported {
			lang = "en"
		}

		// Set language in context
		c.Set("lang", lang)
		c.Next()
	}
}
