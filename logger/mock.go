package logger

import (
	"github.com/stretchr/testify/mock"
)

// MockLogger is a testify mock of Logger.
//
// Every level method is recorded as the method name with two arguments, the
// message and the key/value slice. With is recorded with the key/value slice.
type MockLogger struct {
	mock.Mock
}

var _ Logger = (*MockLogger)(nil)

func NewMockLogger() *MockLogger {
	return &MockLogger{}
}

// ExpectAny accepts any call that has no earlier, more specific expectation.
// With returns m. Register the expectations to assert on before calling it.
func (m *MockLogger) ExpectAny() *MockLogger {
	for _, method := range []string{"Debug", "Info", "Warn", "Error", "Fatal"} {
		m.On(method, mock.Anything, mock.Anything).Maybe()
	}
	m.On("With", mock.Anything).Return(m).Maybe()
	m.On("SetLevel", mock.Anything).Maybe()
	m.On("Level").Return(DebugLevel).Maybe()

	return m
}

func (m *MockLogger) log(method, msg string, keysAndValues []any) {
	m.MethodCalled(method, msg, keysAndValues)
}

func (m *MockLogger) Debug(msg string, keysAndValues ...any) { m.log("Debug", msg, keysAndValues) }

func (m *MockLogger) Info(msg string, keysAndValues ...any) { m.log("Info", msg, keysAndValues) }

func (m *MockLogger) Warn(msg string, keysAndValues ...any) { m.log("Warn", msg, keysAndValues) }

func (m *MockLogger) Error(msg string, keysAndValues ...any) { m.log("Error", msg, keysAndValues) }

func (m *MockLogger) Fatal(msg string, keysAndValues ...any) { m.log("Fatal", msg, keysAndValues) }

func (m *MockLogger) SetLevel(level LogLevel) {
	m.MethodCalled("SetLevel", level)
}

func (m *MockLogger) Level() LogLevel {
	return m.MethodCalled("Level").Get(0).(LogLevel)
}

func (m *MockLogger) With(keyValues ...any) Logger {
	return m.MethodCalled("With", keyValues).Get(0).(Logger)
}
