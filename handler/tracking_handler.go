package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"wc_rakuten_tracking/dto"
	"wc_rakuten_tracking/service"

	"github.com/gin-gonic/gin"
)

type TrackingApiHandler struct {
	CommonHandler
}

var GetTrackingApiHandler = new(TrackingApiHandler)

func init() {
	GetTrackingApiHandler.getMapping("thankyou/datalayer", getThankyouDatalayer)
	GetTrackingApiHandler.getMapping("beacon/preview", getBeaconPreview)
	GetTrackingApiHandler.postMapping("beacon/testfire", postBeaconTestFire)
}

// getThankyouDatalayer 返回感谢页嵌入的转化追踪片段。
// 订单侧的所有异常都收敛为"本单不出追踪"，不向落页抛错。
func getThankyouDatalayer(ctx *gin.Context) {
	basket, ok := buildBasketForRequest(ctx)
	if !ok {
		return
	}
	if basket == nil {
		// 终态失败订单：静默空片段
		ctx.Data(http.StatusOK, "text/html; charset=utf-8", nil)
		return
	}

	ov := overridesFromRequest(ctx)
	fragment := service.RenderThankyouFragment(basket, ov, service.CurrentSettings())
	ctx.Data(http.StatusOK, "text/html; charset=utf-8", []byte(fragment))
}

// getBeaconPreview 运营诊断：返回三个渠道各自构建出的请求描述
func getBeaconPreview(ctx *gin.Context) {
	basket, ok := buildBasketForRequest(ctx)
	if !ok || basket == nil {
		if ok {
			ctx.JSON(http.StatusOK, gin.H{"status": "skipped", "reason": "order in failed state"})
		}
		return
	}

	ov := overridesFromRequest(ctx)
	st := service.CurrentSettings()

	resp := gin.H{"status": "success", "enabled": st.Enabled()}
	if saleURL, built := service.BuildSaleBeacon(basket, ov, st); built {
		resp["sale"] = saleURL
	}
	if display, built := service.BuildDisplayBeacon(basket, ov, st); built {
		resp["display"] = gin.H{"element": display.Element, "url": display.URL}
	}
	if search, built := service.BuildSearchBeacon(basket, ov, st); built {
		resp["search"] = gin.H{"script": search.ScriptURL, "args": search.Args}
	}
	ctx.JSON(http.StatusOK, resp)
}

// postBeaconTestFire 运营诊断：服务端试发一次 Sale beacon，不走真实订单路径
func postBeaconTestFire(ctx *gin.Context) {
	basket, ok := buildBasketForRequest(ctx)
	if !ok || basket == nil {
		if ok {
			ctx.JSON(http.StatusOK, gin.H{"status": "skipped"})
		}
		return
	}

	saleURL, built := service.BuildSaleBeacon(basket, overridesFromRequest(ctx), service.CurrentSettings())
	if !built {
		ctx.JSON(http.StatusBadRequest, gin.H{"status": "skipped", "reason": "sale channel aborted"})
		return
	}

	if err := service.FireBeacon(saleURL); err != nil {
		ctx.JSON(http.StatusBadGateway, gin.H{"status": "error", "error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "success", "url": saleURL})
}

// buildBasketForRequest 解析 order_id 并构建 basket，出错时已写好应答。
// 第二返回值 false 表示请求已终结，调用方直接返回。
func buildBasketForRequest(ctx *gin.Context) (*dto.SaleBasket, bool) {
	orderIDStr := ctx.Query("order_id")
	orderID, err := strconv.ParseInt(orderIDStr, 10, 64)
	if err != nil || orderID <= 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "order_id is required"})
		return nil, false
	}

	b, err := service.BuildSaleBasket(orderID)
	if err != nil {
		// 订单取不到：告警级日志 + 落页 console.warn，不中断感谢页
		if errors.Is(err, service.ErrOrderNotFound) {
			log.Printf("[Datalayer] order %d does not exist, not tracked", orderID)
		} else {
			log.Printf("[Datalayer] load order %d: %v", orderID, err)
		}
		ctx.Data(http.StatusOK, "text/html; charset=utf-8", []byte(service.RenderOrderMissingNotice()))
		return nil, false
	}
	return b, true
}

// overridesFromRequest 把买家浏览器随请求带来的联盟 cookie 解析为覆盖参数，
// 网关 cookie 优先于旧版 cookie
func overridesFromRequest(ctx *gin.Context) *service.Overrides {
	gateway, _ := ctx.Cookie(service.CookieStoreGateway)
	legacy, _ := ctx.Cookie(service.CookieStoreLegacy)
	return service.ParseOverrides(gateway, legacy)
}
