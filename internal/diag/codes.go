package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Разметка и директивы
	SynInfo             Code = 2000
	SynMissingAttribute Code = 2001
	SynUnhandledNode    Code = 2002
	SynMalformedMarkup  Code = 2003
	SynUnclosedElement  Code = 2004
	SynUnknownDirective Code = 2005

	// Загрузка шаблонов
	IOInfo         Code = 4000
	IOFileNotFound Code = 4001
	IOReadFailed   Code = 4002
	IOCacheFailed  Code = 4003

	// Конфигурация проекта
	PrjInfo          Code = 5000
	PrjInvalidConfig Code = 5001
)

var codeDescription = map[Code]string{
	UnknownCode:         "Unknown error",
	SynInfo:             "Syntax information",
	SynMissingAttribute: "Missing mandatory attribute",
	SynUnhandledNode:    "Unhandled node kind",
	SynMalformedMarkup:  "Malformed markup",
	SynUnclosedElement:  "Unclosed element",
	SynUnknownDirective: "Unknown directive",
	IOInfo:              "Loader information",
	IOFileNotFound:      "Template not found",
	IOReadFailed:        "Template could not be read",
	IOCacheFailed:       "Compile cache failure",
	PrjInfo:             "Project information",
	PrjInvalidConfig:    "Invalid project configuration",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
