package main

import (
	"fmt"

	"github.com/go-resty/resty/v2"
)

func newClient() *resty.Client {
	return resty.New().SetBaseURL(apiFlag).SetHeader("Content-Type", "application/json")
}

func checked(resp *resty.Response, err error) (string, error) {
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", fmt.Errorf("http %d: %s", resp.StatusCode(), resp.String())
	}
	return resp.String(), nil
}

func doGet(path string) (string, error) {
	return checked(newClient().R().Get(path))
}

func doPostJSON(path string, payload interface{}) (string, error) {
	return checked(newClient().R().SetBody(payload).Post(path))
}

func doPutJSON(path string, payload interface{}) (string, error) {
	return checked(newClient().R().SetBody(payload).Put(path))
}

func doDelete(path string) (string, error) {
	return checked(newClient().R().Delete(path))
}
