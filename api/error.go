/**
 * Copyright (c) 2024 wetrycode
 *
 * This software is released under the MIT License.
 * https://opensource.org/licenses/MIT
 */

package api

const (
	SUCCESS        = 200
	ERROR          = 500
	INVALID_PARAMS = 400
	NOT_FOUND      = 404

	FEED_REPEAT_START = 1003
	FEED_NOT_FOUND    = 1004
)

var MsgFlags = map[int]string{
	SUCCESS:           "ok",
	ERROR:             "fail",
	INVALID_PARAMS:    "bad request",
	NOT_FOUND:         "resource not found",
	FEED_REPEAT_START: "feed repeat start",
	FEED_NOT_FOUND:    "feed not found",
}

// GetMsg get error information based on Code
func GetMsg(code int) string {
	msg, ok := MsgFlags[code]
	if ok {
		return msg
	}

	return MsgFlags[ERROR]
}
