package handlers

import (
	"github.com/gin-gonic/gin"
)

type (
	// Handler 路由注册面，control 层遍历取出全部映射
	Handler interface {
		ForeachHandler(fn func(path string, methodSet []string, handler func(*gin.Context)))
	}

	handlerMapping struct {
		path      string
		methodSet []string
		handler   gin.HandlerFunc
	}

	// CommonHandler 内嵌进各业务 handler，提供 get/post 映射登记
	CommonHandler struct {
		mappings []*handlerMapping
	}
)

func (h *CommonHandler) addMapping(path string, methodSet []string, fn gin.HandlerFunc) {
	h.mappings = append(h.mappings, &handlerMapping{
		path:      path,
		methodSet: methodSet,
		handler:   fn,
	})
}

func (h *CommonHandler) getMapping(path string, fn gin.HandlerFunc) {
	h.addMapping(path, []string{"GET"}, fn)
}

func (h *CommonHandler) postMapping(path string, fn gin.HandlerFunc) {
	h.addMapping(path, []string{"POST"}, fn)
}

// ForeachHandler 遍历已登记的路由映射
func (h *CommonHandler) ForeachHandler(fn func(path string, methodSet []string, handler func(*gin.Context))) {
	for _, m := range h.mappings {
		fn(m.path, m.methodSet, m.handler)
	}
}
