package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

func Cors() Middleware {
	options := cors.Options{
		AllowOriginFunc: func(origin string) bool {
			return true
		},
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
		},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}
	return cors.New(options).Handler
}
