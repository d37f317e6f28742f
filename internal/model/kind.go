package model

import (
	"fmt"
	"strings"
)

// Kind is a refactoring type tag as emitted by the mining engine.
type Kind string

// Method kinds.
const (
	KindRenameMethod            Kind = "RENAME_METHOD"
	KindMoveOperation           Kind = "MOVE_OPERATION"
	KindMoveAndRenameOperation  Kind = "MOVE_AND_RENAME_OPERATION"
	KindPullUpOperation         Kind = "PULL_UP_OPERATION"
	KindPushDownOperation       Kind = "PUSH_DOWN_OPERATION"
	KindInlineOperation         Kind = "INLINE_OPERATION"
	KindExtractOperation        Kind = "EXTRACT_OPERATION"
	KindExtractAndMoveOperation Kind = "EXTRACT_AND_MOVE_OPERATION"
	KindChangeReturnType        Kind = "CHANGE_RETURN_TYPE"
	KindAddParameter            Kind = "ADD_PARAMETER"
	KindRemoveParameter         Kind = "REMOVE_PARAMETER"
	KindRenameParameter         Kind = "RENAME_PARAMETER"
	KindChangeParameterType     Kind = "CHANGE_PARAMETER_TYPE"
	KindAddMethodAnnotation     Kind = "ADD_METHOD_ANNOTATION"
	KindRemoveMethodAnnotation  Kind = "REMOVE_METHOD_ANNOTATION"
	KindModifyMethodAnnotation  Kind = "MODIFY_METHOD_ANNOTATION"
)

// Class kinds.
const (
	KindRenameClass       Kind = "RENAME_CLASS"
	KindMoveClass         Kind = "MOVE_CLASS"
	KindMoveRenameClass   Kind = "MOVE_RENAME_CLASS"
	KindExtractSuperclass Kind = "EXTRACT_SUPERCLASS"
	KindExtractInterface  Kind = "EXTRACT_INTERFACE"
	KindExtractClass      Kind = "EXTRACT_CLASS"
	KindExtractSubclass   Kind = "EXTRACT_SUBCLASS"
)

// Attribute kinds.
const (
	KindRenameAttribute     Kind = "RENAME_ATTRIBUTE"
	KindChangeAttributeType Kind = "CHANGE_ATTRIBUTE_TYPE"
	KindMoveAttribute       Kind = "MOVE_ATTRIBUTE"
	KindMoveRenameAttribute Kind = "MOVE_RENAME_ATTRIBUTE"
	KindPullUpAttribute     Kind = "PULL_UP_ATTRIBUTE"
	KindPushDownAttribute   Kind = "PUSH_DOWN_ATTRIBUTE"
)

// Variable kinds.
const (
	KindRenameVariable     Kind = "RENAME_VARIABLE"
	KindChangeVariableType Kind = "CHANGE_VARIABLE_TYPE"
	KindExtractVariable    Kind = "EXTRACT_VARIABLE"
	KindInlineVariable     Kind = "INLINE_VARIABLE"
	KindSplitVariable      Kind = "SPLIT_VARIABLE"
	KindMergeVariable      Kind = "MERGE_VARIABLE"
)

// Package kinds.
const (
	KindRenamePackage Kind = "RENAME_PACKAGE"
	KindMovePackage   Kind = "MOVE_PACKAGE"
)

// Kinds lists every supported kind in declaration order.
var Kinds = []Kind{
	KindRenameMethod, KindMoveOperation, KindMoveAndRenameOperation, KindPullUpOperation,
	KindPushDownOperation, KindInlineOperation, KindExtractOperation, KindExtractAndMoveOperation,
	KindChangeReturnType, KindAddParameter, KindRemoveParameter, KindRenameParameter,
	KindChangeParameterType, KindAddMethodAnnotation, KindRemoveMethodAnnotation,
	KindModifyMethodAnnotation,
	KindRenameClass, KindMoveClass, KindMoveRenameClass, KindExtractSuperclass,
	KindExtractInterface, KindExtractClass, KindExtractSubclass,
	KindRenameAttribute, KindChangeAttributeType, KindMoveAttribute, KindMoveRenameAttribute,
	KindPullUpAttribute, KindPushDownAttribute,
	KindRenameVariable, KindChangeVariableType, KindExtractVariable, KindInlineVariable,
	KindSplitVariable, KindMergeVariable,
	KindRenamePackage, KindMovePackage,
}

var knownKinds = func() map[Kind]bool {
	m := make(map[Kind]bool, len(Kinds))
	for _, k := range Kinds {
		m[k] = true
	}
	return m
}()

// ParseKind normalises s ("Rename Method", "rename-method", "RENAME_METHOD")
// and checks it against the supported set.
func ParseKind(s string) (Kind, error) {
	norm := strings.ToUpper(strings.TrimSpace(s))
	norm = strings.NewReplacer(" ", "_", "-", "_").Replace(norm)
	k := Kind(norm)
	if !knownKinds[k] {
		return "", fmt.Errorf("unsupported refactoring kind %q", s)
	}
	return k, nil
}

// Title returns the human title of the kind, e.g. "Rename Method".
func (k Kind) Title() string {
	words := strings.Split(strings.ToLower(string(k)), "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
