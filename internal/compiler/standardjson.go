package compiler

import "encoding/json"

// input is the solc --standard-json request document. Its settings block is
// reconstructed verbatim from a metadata.Document's own settings (spec
// §4.E step 2), so its shape mirrors metadata.Settings, except that
// compilationTarget and metadata are not carried over.
type input struct {
	Language string                `json:"language"`
	Sources  map[string]inputSource `json:"sources"`
	Settings inputSettings         `json:"settings"`
}

type inputSource struct {
	Content string `json:"content"`
}

type inputSettings struct {
	Libraries       map[string]string `json:"libraries,omitempty"`
	Optimizer       json.RawMessage   `json:"optimizer,omitempty"`
	EVMVersion      string            `json:"evmVersion,omitempty"`
	Remappings      []string          `json:"remappings,omitempty"`
	OutputSelection json.RawMessage   `json:"outputSelection,omitempty"`
}

// output is the solc --standard-json response document, trimmed to the
// fields the Compiler Driver reads.
type output struct {
	Errors    []outputError                        `json:"errors,omitempty"`
	Contracts map[string]map[string]outputContract `json:"contracts"`
}

type outputError struct {
	Severity         string `json:"severity"`
	FormattedMessage string `json:"formattedMessage"`
}

type outputContract struct {
	Metadata         string           `json:"metadata"`
	EVM              outputContractEVM `json:"evm"`
}

type outputContractEVM struct {
	DeployedBytecode outputBytecode `json:"deployedBytecode"`
}

type outputBytecode struct {
	Object string `json:"object"`
}

func (e outputError) isFatal() bool {
	return e.Severity == "error"
}
