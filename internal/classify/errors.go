package classify

import "errors"

var (
	ErrMissingSection      = errors.New("rules file is missing a required section")
	ErrCategoryName        = errors.New("category is missing a name")
	ErrCategoryPriority    = errors.New("category is missing a priority")
	ErrInvalidContentTypes = errors.New("channel_types must be a mapping of type to keywords")
)
