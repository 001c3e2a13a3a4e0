package service

import "sync"

// Dispatcher 将支付结果回调投递回发起方上下文。
// 实现必须保证同一实例投递的回调串行执行。
type Dispatcher interface {
	Post(fn func())
}

// SerialDispatcher 单消费者串行投递器：所有回调在同一个后台
// goroutine 上依次执行，对应移动端的 "post 回主线程" 模式。
type SerialDispatcher struct {
	tasks     chan func()
	closeOnce sync.Once
	done      chan struct{}
}

// NewSerialDispatcher 创建并启动串行投递器
func NewSerialDispatcher() *SerialDispatcher {
	d := &SerialDispatcher{
		tasks: make(chan func(), 16),
		done:  make(chan struct{}),
	}
	go d.loop()
	return d
}

// Post 投递回调；投递器关闭后的回调被丢弃
func (d *SerialDispatcher) Post(fn func()) {
	if fn == nil {
		return
	}
	select {
	case d.tasks <- fn:
	case <-d.done:
	}
}

// Close 停止投递器，已入队的回调执行完毕后退出
func (d *SerialDispatcher) Close() {
	d.closeOnce.Do(func() {
		close(d.done)
	})
}

func (d *SerialDispatcher) loop() {
	for {
		select {
		case fn := <-d.tasks:
			fn()
		case <-d.done:
			for {
				select {
				case fn := <-d.tasks:
					fn()
				default:
					return
				}
			}
		}
	}
}

// directDispatcher 在调用方 goroutine 上同步执行回调，供测试使用
type directDispatcher struct{}

func (directDispatcher) Post(fn func()) {
	if fn != nil {
		fn()
	}
}
