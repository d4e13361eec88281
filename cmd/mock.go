package cmd

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/abhisek/aptiz/internal/fakeapi"
)

var mockAddr string

var mockCmd = &cobra.Command{
	Use:   "mock",
	Short: "Run a local practice assessment server",
	Long:  "Serves the built-in question bank over the assessment wire protocol, for development and demos without the real backend.",
	RunE: func(cmd *cobra.Command, args []string) error {
		srv, err := fakeapi.NewServer()
		if err != nil {
			return err
		}

		r := chi.NewRouter()
		r.Use(middleware.Logger)
		r.Use(middleware.Recoverer)
		srv.Routes(r)

		fmt.Printf("practice server listening on %s\n", mockAddr)
		return http.ListenAndServe(mockAddr, r)
	},
}

func init() {
	mockCmd.Flags().StringVar(&mockAddr, "addr", ":8000", "Listen address")
}
