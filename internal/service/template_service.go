// internal/service/template_service.go
package service

import (
    "strings"

    "github.com/unclebandit/chairtime-backend/internal/model"
)

func RenderTemplate(template string, data map[string]string) string {
    result := template
    for k, v := range data {
        if v == "" {
            v = "there"
        }
        result = strings.ReplaceAll(result, "{"+k+"}", v)
    }
    return result
}

// RenderForClient fills the standard client placeholders.
func RenderForClient(template string, c model.Client) string {
    return RenderTemplate(template, map[string]string{
        "first_name": c.FirstName,
        "last_name":  c.LastName,
    })
}
