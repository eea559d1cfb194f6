package filter

import (
	"sync"
	"time"
)

// History 接收每次提交后的查询串，例如浏览器地址栏或终端里的路径记录.
type History interface {
	Push(query string)
}

// HistoryFunc 便于用函数实现 History.
type HistoryFunc func(query string)

// Push 实现 History.
func (f HistoryFunc) Push(query string) { f(query) }

// Manager 持有当前筛选状态.
// 搜索修改在 Debounce 空闲后提交，其他修改立即提交并带上尚未提交的搜索词.
// 每个不同的已提交状态只触发一次 OnChange.
type Manager struct {
	mu        sync.Mutex
	cfg       Config
	state     State
	committed State
	gen       uint64
	timer     *time.Timer
	closed    bool

	history  History
	onChange func(State)
}

// NewManager 从查询串恢复初始状态，初始状态视为已提交.
// history 与 onChange 都可以为 nil.
func NewManager(cfg Config, query string, history History, onChange func(State)) *Manager {
	s := cfg.Decode(query)

	return &Manager{
		cfg:       cfg,
		state:     s,
		committed: s,
		history:   history,
		onChange:  onChange,
	}
}

// Config 返回筛选配置.
func (m *Manager) Config() Config {
	return m.cfg
}

// State 返回当前状态（可能包含尚未提交的搜索词）.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.state
}

// Committed 返回最近一次提交的状态.
func (m *Manager) Committed() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.committed
}

// Query 返回最近一次提交状态的查询串.
func (m *Manager) Query() string {
	return m.cfg.Encode(m.Committed())
}

// Dispatch 同步更新状态并安排提交.
func (m *Manager) Dispatch(a Action) {
	m.mu.Lock()

	if m.closed {
		m.mu.Unlock()
		return
	}

	m.state = m.cfg.Reduce(m.state, a)
	m.gen++

	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}

	if _, isSearch := a.(ChangeSearch); isSearch && m.cfg.Debounce > 0 {
		gen := m.gen
		m.timer = time.AfterFunc(m.cfg.Debounce, func() { m.flush(gen) })
		m.mu.Unlock()

		return
	}

	m.commitLocked()
}

// Flush 立即提交尚未提交的搜索.
func (m *Manager) Flush() {
	m.mu.Lock()

	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}

	m.commitLocked()
}

// Close 取消等待中的提交，之后的 Dispatch 被忽略.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true

	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}

// flush 防抖到期；期间有新的迁移时 gen 已经变化，本次作废.
func (m *Manager) flush(gen uint64) {
	m.mu.Lock()

	if m.closed || gen != m.gen {
		m.mu.Unlock()
		return
	}

	m.timer = nil
	m.commitLocked()
}

// commitLocked 在持锁状态下调用，返回前释放锁，回调在锁外执行.
func (m *Manager) commitLocked() {
	if m.state.Equal(m.committed) {
		m.mu.Unlock()
		return
	}

	m.committed = m.state
	s := m.committed
	query := m.cfg.Encode(s)
	m.mu.Unlock()

	if m.history != nil {
		m.history.Push(query)
	}

	if m.onChange != nil {
		m.onChange(s)
	}
}
