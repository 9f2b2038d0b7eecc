package notation

import (
	"fmt"
	"strconv"

	apperrors "github.com/louisbranch/dicemaiden/internal/platform/errors"
)

func syntaxError(seg, pos int, token, reason string) *apperrors.Error {
	return apperrors.WithMetadata(apperrors.CodeDiceSyntax,
		fmt.Sprintf("segment %d position %d: %s (%q)", seg, pos, reason, token),
		map[string]string{
			apperrors.MetaSegment:  strconv.Itoa(seg),
			apperrors.MetaPosition: strconv.Itoa(pos),
			apperrors.MetaToken:    token,
			apperrors.MetaReason:   reason,
		})
}

func rangeError(seg int, token, value string, min, max int) *apperrors.Error {
	return apperrors.WithMetadata(apperrors.CodeDiceRange,
		fmt.Sprintf("segment %d: %s %s outside %d-%d", seg, token, value, min, max),
		map[string]string{
			apperrors.MetaSegment: strconv.Itoa(seg),
			apperrors.MetaToken:   token,
			apperrors.MetaValue:   value,
			apperrors.MetaMin:     strconv.Itoa(min),
			apperrors.MetaMax:     strconv.Itoa(max),
		})
}

func limitError(seg int, token string, limit int) *apperrors.Error {
	meta := map[string]string{
		apperrors.MetaToken: token,
		apperrors.MetaLimit: strconv.Itoa(limit),
	}
	if seg > 0 {
		meta[apperrors.MetaSegment] = strconv.Itoa(seg)
	}
	return apperrors.WithMetadata(apperrors.CodeDiceLimitExceeded,
		fmt.Sprintf("segment %d: %s exceeds %d", seg, token, limit), meta)
}

func comboError(seg int, token, reason string) *apperrors.Error {
	return apperrors.WithMetadata(apperrors.CodeDiceUnsupportedCombination,
		fmt.Sprintf("segment %d: %s: %s", seg, token, reason),
		map[string]string{
			apperrors.MetaSegment: strconv.Itoa(seg),
			apperrors.MetaToken:   token,
			apperrors.MetaReason:  reason,
		})
}
