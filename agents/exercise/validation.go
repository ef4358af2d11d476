package exercise

import (
	"encoding/json"
	"fmt"

	"github.com/Harvard-ATG/HarmonyLab/logger"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"

	messageCreated = "Exercise created successfully!"
	messageFailed  = "Exercise failed to save."
)

// Result is the response given to an instructor submitting an exercise
type Result struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Data    *ResultData `json:"data,omitempty"`
	Errors  []string    `json:"errors,omitempty"`
}

// ResultData holds the accepted exercise
type ResultData struct {
	Exercise  json.RawMessage `json:"exercise"`
	GroupName string          `json:"group_name,omitempty"`
}

// Validate checks a submitted exercise document. The optional "group_name"
// field names where the exercise is filed; it is split off the definition
// and returned alongside it.
func Validate(data []byte, opts ...Option) (*Result, error) {
	if !gjson.ValidBytes(data) || !gjson.ParseBytes(data).IsObject() {
		return nil, ErrInvalidDocument
	}

	groupName := gjson.GetBytes(data, keyGroupName).String()
	data, err := sjson.DeleteBytes(data, keyGroupName)
	if err != nil {
		return nil, fmt.Errorf("failed to remove group name: %w", err)
	}

	definition, err := NewDefinition(data, opts...)
	if err != nil {
		return nil, err
	}

	if !definition.IsValid() {
		logger.Info("Exercise rejected", logger.Fields{
			"group_name": groupName,
			"errors":     len(definition.Errors()),
		})
		return &Result{
			Status:  StatusError,
			Message: messageFailed,
			Errors:  definition.Errors(),
		}, nil
	}

	logger.Info("Exercise accepted", logger.Fields{
		"group_name": groupName,
		"type":       definition.Type(),
		"chords":     len(definition.Chords()),
	})
	return &Result{
		Status:  StatusSuccess,
		Message: messageCreated,
		Data: &ResultData{
			Exercise:  definition.Data(),
			GroupName: groupName,
		},
	}, nil
}
