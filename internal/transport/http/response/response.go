package response

// Resp 统一响应体；Kind 为业务错误种类，客户端据此分支
type Resp struct {
	Code int    `json:"code"`
	Kind string `json:"kind,omitempty"`
	Msg  string `json:"msg"`
	Data any    `json:"data"`
}

// New 构造函数（保证 data 不为 null）
func New(code int, msg string, data any) Resp {
	if data == nil {
		data = struct{}{}
	}
	return Resp{Code: code, Msg: msg, Data: data}
}

// OK 成功响应
func OK(data any) Resp {
	return New(CodeOK, CodeMsgMap[CodeOK], data)
}

// Error 失败响应（可以传自定义 msg 覆盖默认）
func Error(code int, customMsg string) Resp {
	msg := CodeMsgMap[code]
	if customMsg != "" {
		msg = customMsg
	}
	return New(code, msg, struct{}{})
}

// Fail 带错误种类的失败响应
func Fail(code int, kind, msg string) Resp {
	r := Error(code, msg)
	r.Kind = kind
	return r
}
