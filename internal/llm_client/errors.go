package llm_client

import "errors"

var (
	ErrNotInitialized = errors.New("llm client is not initialized")
	ErrPromptTooLong  = errors.New("prompt exceeds the model context budget")
)
