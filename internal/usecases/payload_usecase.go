package usecases

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/paynet/iso20022-orchestrator/internal/domain/entities"
	"github.com/paynet/iso20022-orchestrator/internal/domain/repositories"
)

// PayloadUsecase transforms a source payload into a target payload under a
// PayloadSchemaMapping: field mappings, defaults, conditional mappings,
// elementwise transformation rules, then validation.
type PayloadUsecase struct {
	mappingRepo repositories.PayloadMappingRepository
}

// NewPayloadUsecase constructs a PayloadUsecase.
func NewPayloadUsecase(mappingRepo repositories.PayloadMappingRepository) *PayloadUsecase {
	return &PayloadUsecase{mappingRepo: mappingRepo}
}

// Transform resolves the active mapping for (endpointConfigID, mappingName,
// direction) and applies it to source, returning the built target and the
// result of running the mapping's validation rules against it.
func (u *PayloadUsecase) Transform(ctx context.Context, endpointConfigID, mappingName string, direction entities.MappingDirection, source map[string]interface{}) (map[string]interface{}, entities.ValidationResult, error) {
	mapping, err := u.mappingRepo.GetActive(ctx, endpointConfigID, mappingName, direction)
	if err != nil {
		return nil, entities.ValidationResult{}, err
	}
	target, err := ApplyMapping(mapping, source)
	if err != nil {
		return nil, entities.ValidationResult{}, err
	}
	result := Validate(mapping.ValidationRules, target)
	return target, result, nil
}

// ApplyMapping runs the transformation stages in order: field mappings (each
// applying its elementwise transformation rule), defaults, then conditional
// mappings. Validation is not part of it; Transform runs it afterwards.
func ApplyMapping(mapping *entities.PayloadSchemaMapping, source map[string]interface{}) (map[string]interface{}, error) {
	target := map[string]interface{}{}

	for _, fm := range mapping.FieldMappings {
		value, ok := getPath(source, fm.Source)
		if !ok {
			value = fm.Default
			if value == nil {
				continue
			}
		} else if fm.Transformation != "" {
			transformed, err := applyTransformation(fm.Transformation, value)
			if err != nil {
				return nil, fmt.Errorf("transform field %s: %w", fm.Target, err)
			}
			value = transformed
		}
		setPath(target, fm.Target, value)
	}

	for path, def := range mapping.DefaultValues {
		if _, ok := getPath(target, path); !ok {
			setPath(target, path, def)
		}
	}

	for _, cm := range mapping.ConditionalMappings {
		if evalConditional(cm, source) {
			setPath(target, cm.Target, cm.MappedValue)
		}
	}

	return target, nil
}

// applyTransformation applies one of the named elementwise rules from §4.4.
// regex_replace and unrecognized names return the value unchanged.
func applyTransformation(name string, value interface{}) (interface{}, error) {
	s, isString := value.(string)
	switch name {
	case "uppercase":
		if !isString {
			return value, nil
		}
		return strings.ToUpper(s), nil
	case "lowercase":
		if !isString {
			return value, nil
		}
		return strings.ToLower(s), nil
	case "trim":
		if !isString {
			return value, nil
		}
		return strings.TrimSpace(s), nil
	case "date_format":
		if !isString {
			return value, nil
		}
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return value, nil
		}
		return t.UTC().Format("2006-01-02"), nil
	case "number_format", "currency_format":
		switch v := value.(type) {
		case float64:
			return strconv.FormatFloat(v, 'f', 2, 64), nil
		case string:
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return value, nil
			}
			return strconv.FormatFloat(f, 'f', 2, 64), nil
		default:
			return value, nil
		}
	case "regex_replace":
		return value, nil
	case "":
		return value, nil
	default:
		return value, nil
	}
}

// evalConditional evaluates a ConditionalMapping against source, recursing
// into Operands for and/or composites.
func evalConditional(cm entities.ConditionalMapping, source map[string]interface{}) bool {
	switch cm.Operator {
	case "and":
		for _, op := range cm.Operands {
			if !evalConditional(op, source) {
				return false
			}
		}
		return len(cm.Operands) > 0
	case "or":
		for _, op := range cm.Operands {
			if evalConditional(op, source) {
				return true
			}
		}
		return false
	default:
		actual, _ := getPath(source, cm.SourcePath)
		return compareOperator(cm.Operator, actual, cm.Value)
	}
}

// Validate runs rules against target, collecting every failure.
func Validate(rules []entities.ValidationRule, target map[string]interface{}) entities.ValidationResult {
	result := entities.ValidationResult{Valid: true}
	for _, rule := range rules {
		value, present := getPath(target, rule.Path)
		if rule.Required && !present {
			result.Valid = false
			result.Errors = append(result.Errors, entities.ValidationError{Path: rule.Path, Message: "required field missing"})
			continue
		}
		if !present {
			continue
		}
		if msg := validateValue(rule, value); msg != "" {
			result.Valid = false
			result.Errors = append(result.Errors, entities.ValidationError{Path: rule.Path, Message: msg})
		}
	}
	return result
}

func validateValue(rule entities.ValidationRule, value interface{}) string {
	if rule.Type != "" && !matchesType(rule.Type, value) {
		return fmt.Sprintf("expected type %s", rule.Type)
	}
	if s, ok := value.(string); ok {
		if rule.MinLength > 0 && len(s) < rule.MinLength {
			return fmt.Sprintf("shorter than minLength %d", rule.MinLength)
		}
		if rule.MaxLength > 0 && len(s) > rule.MaxLength {
			return fmt.Sprintf("longer than maxLength %d", rule.MaxLength)
		}
		if rule.Pattern != "" {
			re, err := regexp.Compile(rule.Pattern)
			if err == nil && !re.MatchString(s) {
				return fmt.Sprintf("does not match pattern %s", rule.Pattern)
			}
		}
	}
	if n, ok := asFloat(value); ok {
		if rule.Min != nil && n < *rule.Min {
			return fmt.Sprintf("below min %v", *rule.Min)
		}
		if rule.Max != nil && n > *rule.Max {
			return fmt.Sprintf("above max %v", *rule.Max)
		}
	}
	return ""
}

func matchesType(t string, value interface{}) bool {
	switch t {
	case "string":
		_, ok := value.(string)
		return ok
	case "number":
		_, ok := asFloat(value)
		return ok
	case "integer":
		switch v := value.(type) {
		case int, int64:
			return true
		case float64:
			return v == float64(int64(v))
		default:
			return false
		}
	case "boolean":
		_, ok := value.(bool)
		return ok
	case "array":
		_, ok := value.([]interface{})
		return ok
	case "object":
		_, ok := value.(map[string]interface{})
		return ok
	default:
		return true
	}
}

func asFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

func compareOperator(op string, actual, expected interface{}) bool {
	switch op {
	case "eq":
		return fmt.Sprint(actual) == fmt.Sprint(expected)
	case "ne":
		return fmt.Sprint(actual) != fmt.Sprint(expected)
	case "in":
		list, ok := expected.([]interface{})
		if !ok {
			return false
		}
		for _, item := range list {
			if fmt.Sprint(item) == fmt.Sprint(actual) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// getPath resolves a dot path (e.g. "debtor.account.iban") through nested
// maps and, for a numeric segment, arrays.
func getPath(source map[string]interface{}, path string) (interface{}, bool) {
	if path == "" {
		return nil, false
	}
	segments := strings.Split(path, ".")
	var current interface{} = source
	for _, seg := range segments {
		switch node := current.(type) {
		case map[string]interface{}:
			v, ok := node[seg]
			if !ok {
				return nil, false
			}
			current = v
		case []interface{}:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, false
			}
			current = node[idx]
		default:
			return nil, false
		}
	}
	return current, true
}

// setPath writes value at a dot path, creating intermediate maps as needed.
func setPath(target map[string]interface{}, path string, value interface{}) {
	if path == "" {
		return
	}
	segments := strings.Split(path, ".")
	node := target
	for i, seg := range segments {
		if i == len(segments)-1 {
			node[seg] = value
			return
		}
		next, ok := node[seg].(map[string]interface{})
		if !ok {
			next = map[string]interface{}{}
			node[seg] = next
		}
		node = next
	}
}
