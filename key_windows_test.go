package serial

const testKey PortKey = 7
