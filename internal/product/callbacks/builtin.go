// Package callbacks registers the built-in attribute callbacks with the
// product callback registry. Import this package to make them available.
package callbacks

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/JonMunkholm/catalog-import/internal/product"
)

func init() {
	product.RegisterCallback(product.CallbackVisibility, product.CallbackFunc(visibility))
	product.RegisterCallback(product.CallbackTaxClass, labelCallback(taxClasses, true))
	product.RegisterCallback(product.CallbackBundleType, labelCallback(bundleTypes, false))
	product.RegisterCallback(product.CallbackBundlePriceView, labelCallback(bundlePriceViews, false))
	product.RegisterCallback(product.CallbackBundleShipmentType, labelCallback(bundleShipmentTypes, false))
	product.RegisterCallback(product.CallbackSelect, product.CallbackFunc(selectOption))
	product.RegisterCallback(product.CallbackMultiselect, product.CallbackFunc(multiselectOptions))
	product.RegisterCallback(product.CallbackBoolean, product.CallbackFunc(boolean))
}

var (
	taxClasses = map[string]int{
		"none":          0,
		"taxable goods": 2,
	}
	bundleTypes = map[string]int{
		"dynamic": 0,
		"fixed":   1,
	}
	bundlePriceViews = map[string]int{
		"price range": 0,
		"as low as":   1,
	}
	bundleShipmentTypes = map[string]int{
		"together":   0,
		"separately": 1,
	}
)

// visibility converts a visibility label to its code.
func visibility(_ context.Context, s *product.BunchSubject, _ product.EavAttribute, value string) (string, error) {
	v, err := s.VisibilityIDByValue(value)
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(int64(v), 10), nil
}

// labelCallback maps case-insensitive labels to codes. Unknown labels pass
// through when numeric and passNumeric is set, and are dropped otherwise.
func labelCallback(labels map[string]int, passNumeric bool) product.Callback {
	return product.CallbackFunc(func(_ context.Context, s *product.BunchSubject, attr product.EavAttribute, value string) (string, error) {
		key := strings.ToLower(strings.TrimSpace(value))
		if code, ok := labels[key]; ok {
			return strconv.Itoa(code), nil
		}
		if passNumeric {
			if _, err := strconv.Atoi(key); err == nil {
				return key, nil
			}
		}
		s.Logger().Warn("dropping unknown value",
			"attribute_code", attr.AttributeCode,
			"value", value,
			"file", s.Filename(),
			"line", s.LineNumber(),
		)
		return "", nil
	})
}

// selectOption converts an option label to its option id for the subject's store.
func selectOption(ctx context.Context, s *product.BunchSubject, attr product.EavAttribute, value string) (string, error) {
	id, err := optionID(ctx, s, attr, strings.TrimSpace(value))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(id, 10), nil
}

// multiselectOptions converts a comma separated list of option labels.
func multiselectOptions(ctx context.Context, s *product.BunchSubject, attr product.EavAttribute, value string) (string, error) {
	var ids []string
	for _, label := range strings.Split(value, ",") {
		label = strings.TrimSpace(label)
		if label == "" {
			continue
		}
		id, err := optionID(ctx, s, attr, label)
		if err != nil {
			return "", err
		}
		ids = append(ids, strconv.FormatInt(id, 10))
	}
	return strings.Join(ids, ","), nil
}

func optionID(ctx context.Context, s *product.BunchSubject, attr product.EavAttribute, label string) (int64, error) {
	ov, err := s.EavAttributeOptionValueByAttributeIDOptionValueAndStoreID(ctx, attr.AttributeID, label, s.StoreID())
	if errors.Is(err, product.ErrNotFound) {
		return 0, &product.OptionNotFoundError{
			AttributeCode: attr.AttributeCode,
			Value:         label,
			StoreID:       s.StoreID(),
		}
	}
	if err != nil {
		return 0, err
	}
	return ov.OptionID, nil
}

// boolean accepts yes/no, true/false, y/n, 1/0 and returns 1 or 0.
func boolean(_ context.Context, _ *product.BunchSubject, _ product.EavAttribute, value string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "t", "yes", "y", "1":
		return "1", nil
	default:
		return "0", nil
	}
}
