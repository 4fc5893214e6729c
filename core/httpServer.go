package core

import (
	"bytes"
	"compress/gzip"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"runtime"
	"strings"
	"sync"
	"time"
	ginprom "wc_rakuten_tracking/common/ginporm"

	"github.com/valyala/fasthttp"
)

var ReqClient *http.Client
var fastClient *fasthttp.Client

func init() {
	fastClient = &fasthttp.Client{
		ReadTimeout:              600 * time.Millisecond,
		WriteTimeout:             3000 * time.Millisecond,
		NoDefaultUserAgentHeader: true,
		TLSConfig: &tls.Config{
			InsecureSkipVerify: true, // 设置为 true 来禁用证书验证
		},
	}

	if ReqClient == nil {
		tr := &http.Transport{
			TLSClientConfig:   &tls.Config{InsecureSkipVerify: true},
			MaxIdleConns:      100,              // Maximum number of idle connections to keep
			IdleConnTimeout:   90 * time.Second, // Idle connection timeout
			DisableKeepAlives: false,            // Enable keep-alive connections
		}

		ReqClient = &http.Client{Transport: tr, Timeout: 5 * time.Second}
	}
}

// HttpGet 发送GET请求，resp_exec 为空时丢弃应答体
func HttpGet(urlpath string, resp_exec func(content []byte) error) error {
	start := time.Now()

	req, err := http.NewRequest("GET", urlpath, nil)
	if err != nil {
		return errors.New(err.Error() + "         [" + urlpath + "]")
	}

	resp, err := ReqClient.Do(req)

	if err != nil {
		return err
	}
	endpoint := CallerName()
	defer func() {
		status := fmt.Sprintf("%d", resp.StatusCode)

		method := req.Method
		lvs := []string{status, endpoint, method}
		respSize := int64(0)
		if resp.ContentLength > 0 {
			respSize = resp.ContentLength
		}

		sendReqHttpSize := sendRequestSize(req)
		ginprom.ExportReqSizeBytes.WithLabelValues(lvs...).Observe(sendReqHttpSize)
		ginprom.ExportReqDuration.WithLabelValues(lvs...).Observe(time.Since(start).Seconds())
		ginprom.ExportRespSizeBytes.WithLabelValues(lvs...).Observe(float64(respSize))
	}()
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return errors.New("http status err :[" + resp.Status + "]         [" + urlpath + "]")
	}
	if resp_exec != nil {
		respContent, err := ReadAllOptimized(resp.Body)
		if err != nil {
			return err
		}
		err = resp_exec(respContent)
		if err != nil {
			return err
		}
	}
	return nil
}

// sendRequestSize returns the size of request object.
func sendRequestSize(r *http.Request) float64 {
	size := 0
	if r.URL != nil {
		size = len(r.URL.String())
	}

	size += len(r.Method)
	size += len(r.Proto)

	for name, values := range r.Header {
		size += len(name)
		for _, value := range values {
			size += len(value)
		}
	}
	size += len(r.Host)

	// r.Form and r.MultipartForm are assumed to be included in r.URL.
	if r.ContentLength != -1 {
		size += int(r.ContentLength)
	}
	return float64(size)
}

// 创建一个sync.Pool对象，用于缓存[]byte类型的切片
var bufferPool = sync.Pool{
	New: func() interface{} {
		return make([]byte, 1024)
	},
}

// ReadAllOptimized 是对 ioutil.ReadAll 的优化版本，
// 它使用 sync.Pool 来重用 []byte 切片。
func ReadAllOptimized(r io.Reader) ([]byte, error) {
	buf := bufferPool.Get().([]byte)
	defer bufferPool.Put(buf)

	var result bytes.Buffer
	for {
		n, err := r.Read(buf)
		if n > 0 {
			result.Write(buf[:n])
		}
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
	}
	return result.Bytes(), nil
}

// Fast_Http 发送请求(http_method = POST|GET)
func Fast_Http(body_string, sendurl, content_type, http_method string, response_call func(content []byte) error) error {
	start := time.Now()
	method := "POST"
	if http_method == "GET" {
		method = "GET"
	}

	if sendurl == "" || (body_string == "" && method == "POST") {
		return nil
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req) // 用完需要释放资源
	req.SetRequestURI(sendurl)         //设置请求的url
	req.SetBody([]byte(body_string))   //存储转换好的数据
	req.Header.SetMethod(method)       //设置请求方法

	if content_type == "json" {
		req.Header.Set("Content-Type", "application/json; charset=UTF-8")
		req.Header.Set("Accept", "application/json; charset=UTF-8")
	} else {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp) // 用完需要释放资源
	endpoint := CallerName()
	defer func() {
		status := fmt.Sprintf("%d", resp.StatusCode())
		lvs := []string{status, endpoint, method}
		respSize := float64(len(resp.Header.Header()) + len(resp.Body()))
		sendReqHttpSize := float64(len(req.Header.Header()) + len(req.Body()))
		ginprom.ExportReqSizeBytes.WithLabelValues(lvs...).Observe(sendReqHttpSize)
		ginprom.ExportReqDuration.WithLabelValues(lvs...).Observe(time.Since(start).Seconds())
		ginprom.ExportRespSizeBytes.WithLabelValues(lvs...).Observe(respSize)
	}()

	if err := fastClient.Do(req, resp); err != nil {
		log_str := fmt.Sprintf("[Fast_Http fastClient.Do err][err=%s][send_url=%s]", err.Error(), sendurl)
		return errors.New(log_str)
	}

	//应答处理
	if resp.StatusCode() == 200 {
		if response_call == nil {
			return nil
		}
		var body []byte
		if strings.ToLower(string(resp.Header.Peek("Content-Encoding"))) == "gzip" {
			body, _ = GzipDecode(resp.Body())
		} else {
			body = resp.Body()
		}
		return response_call(body)
	} else {
		return nil
	}
}

// gzip字符解压缩
func GzipDecode(in []byte) ([]byte, error) {
	reader, err := gzip.NewReader(bytes.NewReader(in))
	if err != nil {
		var out []byte
		return out, err
	}
	defer reader.Close()
	return ReadAllOptimized(reader)
}

func CallerName() string {
	pc, _, _, ok := runtime.Caller(2) // 传入1表示获取上一级调用者的信息
	if !ok {
		return "unknown"
	}

	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return "unknown"
	}

	return parseMethodCall(fn.Name())
}

// 解析方法调用的函数
func parseMethodCall(input string) string {
	// 找到最后一个 . 的位置
	lastDot := strings.LastIndex(input, ".")
	// 找到 * 的位置
	asteriskIndex := strings.Index(input, "*")
	// 提取类型名称
	var typeName string
	if asteriskIndex != -1 && asteriskIndex < lastDot {
		typeName = input[asteriskIndex+1 : lastDot]
	} else {
		typeName = input[:lastDot]
	}
	typeName = strings.ReplaceAll(typeName, ")", "")
	return typeName + input[lastDot:]
}
