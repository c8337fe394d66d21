package cmd

import (
	"encoding/json"
	"io"

	"github.com/quatton/vitalsync/pkg/qsdk"
)

func newSdk() (*qsdk.Config, *qsdk.Sdk, error) {
	cfg, err := qsdk.LoadConfig(cfgFile)
	if err != nil {
		return nil, nil, err
	}
	sdk, err := qsdk.NewSdk(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, sdk, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
