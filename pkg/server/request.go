package server

import (
	"net/http"

	"github.com/gorilla/schema"
)

type ListRequest struct {
	Category string `json:"category" schema:"category,default:all"`
	Query    string `json:"query" schema:"query"`
}

var decoder = schema.NewDecoder()

func init() {
	decoder.IgnoreUnknownKeys(true)
}

func GetListRequest(r *http.Request) (*ListRequest, error) {
	lr := &ListRequest{Category: "all"}
	if err := decoder.Decode(lr, r.URL.Query()); err != nil {
		return nil, err
	}
	if lr.Category == "" {
		lr.Category = "all"
	}
	return lr, nil
}
