package client

//go:generate go run ../../apps/vitalsync openapi -o openapi.json
//go:generate go tool oapi-codegen -config cfg.yaml openapi.json
